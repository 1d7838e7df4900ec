package walletstate

import "time"

// RevocationStatus mirrors the status an attestation's revocation check
// last reported.
type RevocationStatus int

const (
	RevocationStatusValid RevocationStatus = iota
	RevocationStatusRevoked
	RevocationStatusUnknown
)

// ValidityWindow is the time range over which an attestation is valid.
// A zero Until means the attestation never expires.
type ValidityWindow struct {
	From  time.Time
	Until time.Time
}

// AttestationSummary is the subset of an attestation's state relevant to
// deriving notifications.
type AttestationSummary struct {
	ID               string
	DisplayName      string
	Validity         ValidityWindow
	RevocationStatus RevocationStatus
}

// NotificationType identifies what happened to an attestation.
type NotificationType int

const (
	NotificationExpired NotificationType = iota
	NotificationExpiresSoon
	NotificationRevoked
)

func (t NotificationType) String() string {
	switch t {
	case NotificationExpired:
		return "expired"
	case NotificationExpiresSoon:
		return "expires_soon"
	case NotificationRevoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// DisplayTarget says where a notification should surface: as an OS push
// notification scheduled for a future time, or only in the wallet's own
// dashboard.
type DisplayTarget struct {
	OS        bool
	NotifyAt  time.Time
	Dashboard bool
}

// Notification is one derived user-facing notice about an attestation.
type Notification struct {
	AttestationID string
	Type          NotificationType
	ExpiresAt     time.Time
	Targets       []DisplayTarget
}

// expiresSoonWindow is how far ahead of expiry a credential is
// considered to be "expiring soon" and worth pre-warning about.
const expiresSoonWindow = 30 * 24 * time.Hour

// CreateForAttestation derives the notifications (if any) that should be
// shown for a single attestation as of now. A revoked attestation only
// ever produces a single dashboard notice — revocation is definitive, so
// unlike expiry there is nothing further to warn about in advance. An
// attestation with no expiry (Until is zero) never produces a
// notification.
func CreateForAttestation(att AttestationSummary, now time.Time) []Notification {
	if att.RevocationStatus == RevocationStatusRevoked {
		return []Notification{{
			AttestationID: att.ID,
			Type:          NotificationRevoked,
			Targets:       []DisplayTarget{{Dashboard: true}},
		}}
	}

	until := att.Validity.Until
	if until.IsZero() {
		return nil
	}

	if !now.Before(until) {
		return []Notification{{
			AttestationID: att.ID,
			Type:          NotificationExpired,
			ExpiresAt:     until,
			Targets:       []DisplayTarget{{Dashboard: true}},
		}}
	}

	notifyAt := until.Add(-expiresSoonWindow)
	if notifyAt.Before(att.Validity.From) {
		notifyAt = att.Validity.From
	}

	if !now.Before(notifyAt) {
		return []Notification{
			{
				AttestationID: att.ID,
				Type:          NotificationExpiresSoon,
				ExpiresAt:     until,
				Targets:       []DisplayTarget{{Dashboard: true}},
			},
			{
				AttestationID: att.ID,
				Type:          NotificationExpired,
				ExpiresAt:     until,
				Targets:       []DisplayTarget{{OS: true, NotifyAt: until}},
			},
		}
	}

	return []Notification{
		{
			AttestationID: att.ID,
			Type:          NotificationExpiresSoon,
			ExpiresAt:     until,
			Targets:       []DisplayTarget{{OS: true, NotifyAt: notifyAt}},
		},
		{
			AttestationID: att.ID,
			Type:          NotificationExpired,
			ExpiresAt:     until,
			Targets:       []DisplayTarget{{OS: true, NotifyAt: until}},
		},
	}
}
