package attestedkey

import (
	"encoding/asn1"
	"fmt"

	"crypto/x509"
)

// OIDKeyDescription is the OID of the Android Key Attestation extension
// carrying the KeyDescription structure on the leaf certificate.
var OIDKeyDescription = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 11129, 2, 1, 17}

// SecurityLevel mirrors the KeyMint/Keymaster SecurityLevel enumeration.
type SecurityLevel int

const (
	SecurityLevelSoftware SecurityLevel = iota
	SecurityLevelTrustedEnvironment
	SecurityLevelStrongBox
)

// VerifiedBootState mirrors the RootOfTrust verifiedBootState enumeration.
type VerifiedBootState int

const (
	VerifiedBootStateVerified VerifiedBootState = iota
	VerifiedBootStateSelfSigned
	VerifiedBootStateUnverified
	VerifiedBootStateFailed
)

// RootOfTrust is the decoded RootOfTrust SEQUENCE (tag 704).
type RootOfTrust struct {
	VerifiedBootKey   []byte
	DeviceLocked      bool
	VerifiedBootState VerifiedBootState
	VerifiedBootHash  []byte
}

// AuthorizationList is the decoded (partial) AuthorizationList SEQUENCE.
// Only the fields this package's verification logic needs are kept;
// unused fields are still declared to document the full schema, matching
// the Android Keystore attestation extension v3/v4/100/200/300 schema.
type AuthorizationList struct {
	Purpose                  []int
	Algorithm                *int
	KeySize                  *int
	Digest                   []int
	Padding                  []int
	ECCurve                  *int
	RSAPublicExponent        *int
	RollbackResistance       bool
	NoAuthRequired           bool
	UserAuthType             *int
	AllApplications          bool
	Origin                   *int
	RootOfTrust              *RootOfTrust
	OSVersion                *int
	OSPatchLevel             *int
	AttestationApplicationID []byte
	VendorPatchLevel         *int
	BootPatchLevel           *int
}

// KeyDescription is the decoded top-level KeyDescription SEQUENCE
// carried by the Android Key Attestation certificate extension.
type KeyDescription struct {
	AttestationVersion      int
	AttestationSecurityLevel SecurityLevel
	KeyMintVersion          int
	KeyMintSecurityLevel    SecurityLevel
	AttestationChallenge    []byte
	UniqueID                []byte
	SoftwareEnforced        AuthorizationList
	HardwareEnforced        AuthorizationList
}

// asn1AuthorizationList is the raw ASN.1 shape used only for decoding;
// every field is OPTIONAL and EXPLICIT-tagged per the Keystore schema.
type asn1AuthorizationList struct {
	Purpose                  []int        `asn1:"explicit,tag:1,optional,set"`
	Algorithm                int          `asn1:"explicit,tag:2,optional"`
	KeySize                  int          `asn1:"explicit,tag:3,optional"`
	Digest                   []int        `asn1:"explicit,tag:5,optional,set"`
	Padding                  []int        `asn1:"explicit,tag:6,optional,set"`
	ECCurve                  int          `asn1:"explicit,tag:10,optional"`
	RSAPublicExponent        int          `asn1:"explicit,tag:200,optional"`
	MGFDigest                []int        `asn1:"explicit,tag:203,optional,set"`
	RollbackResistance       asn1.RawValue `asn1:"explicit,tag:303,optional"`
	EarlyBootOnly            asn1.RawValue `asn1:"explicit,tag:305,optional"`
	ActiveDateTime           int          `asn1:"explicit,tag:400,optional"`
	OriginationExpireDateTime int         `asn1:"explicit,tag:401,optional"`
	UsageExpireDateTime      int          `asn1:"explicit,tag:402,optional"`
	UsageCountLimit          int          `asn1:"explicit,tag:405,optional"`
	NoAuthRequired           asn1.RawValue `asn1:"explicit,tag:503,optional"`
	UserAuthType             int          `asn1:"explicit,tag:504,optional"`
	AuthTimeout              int          `asn1:"explicit,tag:505,optional"`
	AllowWhileOnBody         asn1.RawValue `asn1:"explicit,tag:506,optional"`
	TrustedUserPresenceReq   asn1.RawValue `asn1:"explicit,tag:507,optional"`
	TrustedConfirmationReq   asn1.RawValue `asn1:"explicit,tag:508,optional"`
	UnlockedDeviceRequired   asn1.RawValue `asn1:"explicit,tag:509,optional"`
	AllApplications          asn1.RawValue `asn1:"explicit,tag:600,optional"`
	CreationDateTime         int          `asn1:"explicit,tag:701,optional"`
	Origin                   int          `asn1:"explicit,tag:702,optional"`
	RootOfTrust              asn1RootOfTrust `asn1:"explicit,tag:704,optional"`
	OSVersion                int          `asn1:"explicit,tag:705,optional"`
	OSPatchLevel             int          `asn1:"explicit,tag:706,optional"`
	AttestationApplicationID []byte       `asn1:"explicit,tag:709,optional"`
	AttestationIDBrand       []byte       `asn1:"explicit,tag:710,optional"`
	AttestationIDDevice      []byte       `asn1:"explicit,tag:711,optional"`
	AttestationIDProduct     []byte       `asn1:"explicit,tag:712,optional"`
	AttestationIDSerial      []byte       `asn1:"explicit,tag:713,optional"`
	AttestationIDIMEI        []byte       `asn1:"explicit,tag:714,optional"`
	AttestationIDMEID        []byte       `asn1:"explicit,tag:715,optional"`
	AttestationIDManufacturer []byte      `asn1:"explicit,tag:716,optional"`
	AttestationIDModel       []byte       `asn1:"explicit,tag:717,optional"`
	VendorPatchLevel         int          `asn1:"explicit,tag:718,optional"`
	BootPatchLevel           int          `asn1:"explicit,tag:719,optional"`
	DeviceUniqueAttestation  asn1.RawValue `asn1:"explicit,tag:720,optional"`
	AttestationIDSecondIMEI  []byte       `asn1:"explicit,tag:723,optional"`
}

type asn1RootOfTrust struct {
	VerifiedBootKey   []byte
	DeviceLocked      bool
	VerifiedBootState asn1.Enumerated
	VerifiedBootHash  []byte
}

type asn1KeyDescription struct {
	AttestationVersion       int
	AttestationSecurityLevel asn1.Enumerated
	KeyMintVersion           int
	KeyMintSecurityLevel     asn1.Enumerated
	AttestationChallenge     []byte
	UniqueID                 []byte
	SoftwareEnforced         asn1AuthorizationList
	HardwareEnforced         asn1AuthorizationList
}

func intPtrIfSet(v int, present bool) *int {
	if !present {
		return nil
	}
	return &v
}

func toAuthorizationList(raw asn1AuthorizationList) AuthorizationList {
	list := AuthorizationList{
		Purpose:                  raw.Purpose,
		Digest:                   raw.Digest,
		Padding:                  raw.Padding,
		RollbackResistance:       raw.RollbackResistance.FullBytes != nil,
		NoAuthRequired:           raw.NoAuthRequired.FullBytes != nil,
		AllApplications:          raw.AllApplications.FullBytes != nil,
		AttestationApplicationID: raw.AttestationApplicationID,
	}
	if raw.Algorithm != 0 {
		list.Algorithm = intPtrIfSet(raw.Algorithm, true)
	}
	if raw.KeySize != 0 {
		list.KeySize = intPtrIfSet(raw.KeySize, true)
	}
	if raw.ECCurve != 0 {
		list.ECCurve = intPtrIfSet(raw.ECCurve, true)
	}
	if raw.RSAPublicExponent != 0 {
		list.RSAPublicExponent = intPtrIfSet(raw.RSAPublicExponent, true)
	}
	if raw.UserAuthType != 0 {
		list.UserAuthType = intPtrIfSet(raw.UserAuthType, true)
	}
	if raw.Origin != 0 {
		list.Origin = intPtrIfSet(raw.Origin, true)
	}
	if raw.OSVersion != 0 {
		list.OSVersion = intPtrIfSet(raw.OSVersion, true)
	}
	if raw.OSPatchLevel != 0 {
		list.OSPatchLevel = intPtrIfSet(raw.OSPatchLevel, true)
	}
	if raw.VendorPatchLevel != 0 {
		list.VendorPatchLevel = intPtrIfSet(raw.VendorPatchLevel, true)
	}
	if raw.BootPatchLevel != 0 {
		list.BootPatchLevel = intPtrIfSet(raw.BootPatchLevel, true)
	}
	if raw.RootOfTrust.VerifiedBootKey != nil {
		list.RootOfTrust = &RootOfTrust{
			VerifiedBootKey:   raw.RootOfTrust.VerifiedBootKey,
			DeviceLocked:      raw.RootOfTrust.DeviceLocked,
			VerifiedBootState: VerifiedBootState(raw.RootOfTrust.VerifiedBootState),
			VerifiedBootHash:  raw.RootOfTrust.VerifiedBootHash,
		}
	}
	return list
}

// ParseKeyDescription extracts and decodes the KeyDescription extension
// from an Android Key Attestation leaf certificate.
func ParseKeyDescription(leaf *x509.Certificate) (*KeyDescription, error) {
	var raw []byte
	for _, ext := range leaf.Extensions {
		if ext.Id.Equal(OIDKeyDescription) {
			raw = ext.Value
			break
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("attestedkey: leaf certificate has no KeyDescription extension")
	}

	var decoded asn1KeyDescription
	if _, err := asn1.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("attestedkey: decode KeyDescription: %w", err)
	}

	return &KeyDescription{
		AttestationVersion:       decoded.AttestationVersion,
		AttestationSecurityLevel: SecurityLevel(decoded.AttestationSecurityLevel),
		KeyMintVersion:           decoded.KeyMintVersion,
		KeyMintSecurityLevel:     SecurityLevel(decoded.KeyMintSecurityLevel),
		AttestationChallenge:     decoded.AttestationChallenge,
		UniqueID:                 decoded.UniqueID,
		SoftwareEnforced:         toAuthorizationList(decoded.SoftwareEnforced),
		HardwareEnforced:         toAuthorizationList(decoded.HardwareEnforced),
	}, nil
}

// VerifyChallenge checks that the KeyDescription's attestation challenge
// matches the challenge the caller issued.
func (kd *KeyDescription) VerifyChallenge(challenge []byte) error {
	if len(kd.AttestationChallenge) != len(challenge) {
		return fmt.Errorf("attestedkey: attestation challenge length mismatch")
	}
	for i := range challenge {
		if kd.AttestationChallenge[i] != challenge[i] {
			return fmt.Errorf("attestedkey: attestation challenge mismatch")
		}
	}
	return nil
}

// RequireHardwareBacked returns an error unless the hardware-enforced
// authorization list reports at least TrustedEnvironment security.
func (kd *KeyDescription) RequireHardwareBacked() error {
	if kd.HardwareEnforced.RootOfTrust == nil {
		return fmt.Errorf("attestedkey: no hardware root of trust present")
	}
	if kd.KeyMintSecurityLevel == SecurityLevelSoftware {
		return fmt.Errorf("attestedkey: key is software-backed, not hardware-backed")
	}
	return nil
}
