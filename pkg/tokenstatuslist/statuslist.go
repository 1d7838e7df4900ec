package tokenstatuslist

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"time"
)

// Status values per draft-ietf-oauth-status-list Section 7.1.
const (
	StatusValid     uint8 = 0
	StatusInvalid   uint8 = 1
	StatusSuspended uint8 = 2
)

// Bits is the number of bits per status entry this package uses. The
// specification allows 1, 2, 4, or 8; this package hardcodes 8 (one byte
// per status) and never packs multiple statuses into a byte.
const Bits = 8

// ErrInvalidStatusIndex is returned when a status index falls outside a
// status list's bounds.
var ErrInvalidStatusIndex = errors.New("tokenstatuslist: invalid status index: out of bounds")

// StatusListClaim is the status_list claim carried by a Status List Token,
// shared between the JWT and CWT encodings.
type StatusListClaim struct {
	Bits           int    `json:"bits" cbor:"1,keyasint"`
	Lst            string `json:"lst" cbor:"2,keyasint"`
	AggregationURI string `json:"aggregation_uri,omitempty" cbor:"3,keyasint,omitempty"`
}

// StatusList holds the status values for a set of Referenced Tokens and the
// fields needed to mint a signed Status List Token for them.
type StatusList struct {
	statuses []uint8

	Issuer         string
	Subject        string
	TTL            int64
	ExpiresIn      time.Duration
	KeyID          string
	AggregationURI string
}

// New creates a StatusList from statuses with no issuer metadata set; set
// the exported fields before calling GenerateJWT or GenerateCWT.
func New(statuses []uint8) *StatusList {
	return &StatusList{statuses: statuses}
}

// NewWithConfig creates a StatusList with its issuer and subject set.
func NewWithConfig(statuses []uint8, issuer, subject string) *StatusList {
	return &StatusList{statuses: statuses, Issuer: issuer, Subject: subject}
}

// Statuses returns a copy of the underlying status values.
func (sl *StatusList) Statuses() []uint8 {
	out := make([]uint8, len(sl.statuses))
	copy(out, sl.statuses)
	return out
}

// Len returns the number of statuses in the list.
func (sl *StatusList) Len() int {
	return len(sl.statuses)
}

// Get retrieves the status at index. The index corresponds to the "idx"
// value carried by a Referenced Token's status claim.
func (sl *StatusList) Get(index int) (uint8, error) {
	if index < 0 || index >= len(sl.statuses) {
		return 0, ErrInvalidStatusIndex
	}
	return sl.statuses[index], nil
}

// Set updates the status at index.
func (sl *StatusList) Set(index int, status uint8) error {
	if index < 0 || index >= len(sl.statuses) {
		return ErrInvalidStatusIndex
	}
	sl.statuses[index] = status
	return nil
}

// Compress DEFLATE-compresses the status byte array per Section 4.1,
// returning the raw compressed bytes (the CWT encoding of lst).
func (sl *StatusList) Compress() ([]byte, error) {
	return CompressStatuses(sl.statuses)
}

// CompressAndEncode compresses and base64url-encodes the status byte array
// (no padding), the JWT encoding of lst.
func (sl *StatusList) CompressAndEncode() (string, error) {
	return CompressAndEncode(sl.statuses)
}

// TokenConfig holds the fields needed to generate a Status List Token.
// Deprecated: construct a StatusList and call its GenerateJWT/GenerateCWT
// methods directly instead.
type TokenConfig struct {
	Subject        string
	Issuer         string
	Statuses       []uint8
	TTL            int64
	ExpiresIn      time.Duration
	KeyID          string
	AggregationURI string
}

// CompressStatuses DEFLATE-compresses a status byte array per Section 4.1.
func CompressStatuses(statuses []uint8) ([]byte, error) {
	var b bytes.Buffer
	w, err := zlib.NewWriterLevel(&b, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(statuses); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// CompressAndEncode compresses statuses and base64url-encodes them without
// padding, the lst format used in JWT Status List Tokens.
func CompressAndEncode(statuses []uint8) (string, error) {
	compressed, err := CompressStatuses(statuses)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// DecompressStatuses reverses CompressStatuses.
func DecompressStatuses(compressed []byte) ([]uint8, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var b bytes.Buffer
	if _, err := b.ReadFrom(r); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodeAndDecompress reverses CompressAndEncode.
func DecodeAndDecompress(encoded string) ([]uint8, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return DecompressStatuses(compressed)
}

// GetStatus retrieves the status at index from statuses. The index
// corresponds to the "idx" value carried by a Referenced Token's status
// claim.
func GetStatus(statuses []uint8, index int) (uint8, error) {
	if index < 0 || index >= len(statuses) {
		return 0, ErrInvalidStatusIndex
	}
	return statuses[index], nil
}

// SetStatus updates the status at index within statuses in place.
func SetStatus(statuses []uint8, index int, status uint8) error {
	if index < 0 || index >= len(statuses) {
		return ErrInvalidStatusIndex
	}
	statuses[index] = status
	return nil
}
