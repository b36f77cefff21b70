package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainQuery = "vcomp/query/v1"
	DomainRows  = "vcomp/rows/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// QueryFingerprint identifies an emitted query: its text and the physical
// parameter values bound to it. Two trees that serialize identically share
// a fingerprint, which is what the audit log deduplicates on.
func QueryFingerprint(sql string, params []any) (string, error) {
	values := make(IRArray, len(params))
	for i, p := range params {
		v, err := FromNative(p)
		if err != nil {
			return "", fmt.Errorf("QueryFingerprint: param %d: %w", i, err)
		}
		values[i] = v
	}

	canonical, err := MarshalCanonical(IRObject{
		"sql":    IRString(sql),
		"params": values,
	})
	if err != nil {
		return "", fmt.Errorf("QueryFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainQuery, canonical), nil
}

// RowsFingerprint identifies a result set. Row order is significant.
func RowsFingerprint(rows []IRObject) (string, error) {
	arr := make(IRArray, len(rows))
	for i, row := range rows {
		arr[i] = row
	}
	canonical, err := MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("RowsFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRows, canonical), nil
}

// MustQueryFingerprint is like QueryFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustQueryFingerprint(sql string, params []any) string {
	fp, err := QueryFingerprint(sql, params)
	if err != nil {
		panic(err)
	}
	return fp
}
