package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-board-sync/models"
)

// ErrMergeConflict matches every *MergeConflictError.
var ErrMergeConflict = errors.New("merge conflict")

// MergeConflictError reports the fields both sides changed to different
// values.
type MergeConflictError struct {
	Fields []string
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMergeConflict, strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrMergeConflict) match.
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// Merge computes the three-way merge of an entity. base is the snapshot the
// local change was made against and may be nil. The result starts from server
// so identity, version and timestamps always come from the server.
//
// Per field: unchanged on both sides keeps server, a one-sided change wins,
// identical changes are accepted, different changes abort the merge with a
// *MergeConflictError. Without a base the sides are compared directly.
func Merge(base *models.Entity, local, server models.Entity) (models.Entity, error) {
	merged := server.Clone()
	var conflicts []string

	for _, f := range models.MergeableFields {
		if f.Equal(local, server) {
			continue
		}

		if base == nil {
			conflicts = append(conflicts, f.Name)
			continue
		}

		localChanged := !f.Equal(*base, local)
		serverChanged := !f.Equal(*base, server)

		switch {
		case localChanged && serverChanged:
			conflicts = append(conflicts, f.Name)
		case localChanged:
			f.Copy(&merged, local)
		}
	}

	if len(conflicts) > 0 {
		return models.Entity{}, &MergeConflictError{Fields: conflicts}
	}
	return merged, nil
}
