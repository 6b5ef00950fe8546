// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-board-sync/models"
)

const testHashKey = "test-secret-key"

func TestHashBody_MatchesHMAC(t *testing.T) {
	card := models.NewCard("c-1", "l-1", "Write tests", "", []string{"go"}, 0)
	payload, err := json.Marshal(card)
	require.NoError(t, err)

	// эталон считаем напрямую через crypto/hmac
	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write(payload)

	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), HashBody(payload, testHashKey))
}

func TestHashBody_Distinguishes(t *testing.T) {
	a, _ := json.Marshal(models.NewList("l-1", "Todo", 0))
	b, _ := json.Marshal(models.NewList("l-1", "Done", 0))

	assert.NotEqual(t, HashBody(a, testHashKey), HashBody(b, testHashKey), "different payloads")
	assert.NotEqual(t, HashBody(a, "key-one"), HashBody(a, "key-two"), "different keys")
	assert.Equal(t, HashBody(a, testHashKey), HashBody(a, testHashKey), "deterministic")

	// хеш считается по байтам на проводе, а не по значениям
	assert.NotEqual(t,
		HashBody([]byte(`{"id":"c-1","title":"Ship"}`), testHashKey),
		HashBody([]byte(`{"title":"Ship","id":"c-1"}`), testHashKey))
}

func TestHashBody_Hex(t *testing.T) {
	got := HashBody(nil, testHashKey)

	assert.Len(t, got, sha256.Size*2)
	_, err := hex.DecodeString(got)
	assert.NoError(t, err)
}

func TestVerifyBodyHash(t *testing.T) {
	body := []byte(`{"lists":[{"id":"l-1","position":2,"version":3}]}`)
	sig := HashBody(body, testHashKey)

	tests := []struct {
		name      string
		body      []byte
		key       string
		signature string
		want      bool
	}{
		{name: "valid", body: body, key: testHashKey, signature: sig, want: true},
		{name: "uppercase hex", body: body, key: testHashKey, signature: strings.ToUpper(sig), want: true},
		{name: "other key", body: body, key: "other", signature: sig},
		{name: "tampered body", body: append([]byte{' '}, body...), key: testHashKey, signature: sig},
		{name: "missing", body: body, key: testHashKey, signature: ""},
		{name: "not hex", body: body, key: testHashKey, signature: "zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyBodyHash(tt.body, tt.key, tt.signature))
		})
	}
}
