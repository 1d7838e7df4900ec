// Package walletstate derives the wallet's current top-level state from
// its registration, lock, storage, session, and update-policy status, and
// turns attestation validity windows into user-facing notifications.
package walletstate

import "fmt"

// State is the wallet's current top-level state, as surfaced to the UI.
type State int

const (
	// StateBlocked means the wallet cannot be used at all: either the
	// installed app version is no longer supported, or the wallet
	// provider has blocked this account.
	StateBlocked State = iota
	// StateRegistration means no account has been registered on this
	// device yet.
	StateRegistration
	// StateEmpty means the wallet is registered but holds no
	// attestations yet.
	StateEmpty
	// StateTransferPossible means a wallet transfer to a new device may
	// be started, but none is in progress.
	StateTransferPossible
	// StateTransferring means a wallet transfer is in progress, either
	// as the source or destination device.
	StateTransferring
	// StateIssuance means a credential issuance session is in progress.
	StateIssuance
	// StateDisclosure means a credential disclosure session is in
	// progress.
	StateDisclosure
	// StatePinChange means a PIN change is in progress.
	StatePinChange
	// StatePinRecovery means a PIN recovery session is in progress.
	StatePinRecovery
	// StateReady means the wallet holds at least one attestation and no
	// flow is currently in progress.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateBlocked:
		return "blocked"
	case StateRegistration:
		return "registration"
	case StateEmpty:
		return "empty"
	case StateTransferPossible:
		return "transfer_possible"
	case StateTransferring:
		return "transferring"
	case StateIssuance:
		return "issuance"
	case StateDisclosure:
		return "disclosure"
	case StatePinChange:
		return "pin_change"
	case StatePinRecovery:
		return "pin_recovery"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("walletstate.State(%d)", int(s))
	}
}

// BlockedReason distinguishes why the wallet is blocked, so the UI can
// show a different message (and, for RequiresAppUpdate, a store link).
type BlockedReason int

const (
	BlockedReasonNone BlockedReason = iota
	BlockedReasonRequiresAppUpdate
	BlockedReasonBlockedByProvider
)

// TransferRole distinguishes the two sides of a wallet transfer.
type TransferRole int

const (
	TransferRoleNone TransferRole = iota
	TransferRoleSource
	TransferRoleDestination
)

// SessionKind identifies the kind of flow session currently active on
// the wallet, if any.
type SessionKind int

const (
	SessionNone SessionKind = iota
	SessionDigid
	SessionIssuance
	SessionDisclosure
	SessionPinRecovery
)

// Snapshot is the set of facts get_state reads in order to classify the
// wallet into one State. Locked wraps whatever the underlying flow state
// would otherwise be: a locked wallet mid-issuance is still reported as
// issuance to the caller, with Locked set, so the UI can show the PIN
// unlock prompt over the correct background.
type Snapshot struct {
	VersionBlocked   bool
	ProviderBlocked  bool
	Registered       bool
	Locked           bool
	AttestationCount int
	TransferActive   bool
	TransferRole     TransferRole
	ActiveSession    SessionKind
	PinChangeActive  bool
}

// Resolved is the classified state plus whether it is currently locked
// behind a PIN prompt.
type Resolved struct {
	State         State
	Locked        bool
	BlockedReason BlockedReason
	TransferRole  TransferRole
}

// Resolve classifies a Snapshot into the wallet's current State,
// mirroring get_state/get_flow_state: version/provider blocks and an
// unregistered wallet short-circuit before storage is even considered;
// an empty attestation set always reports Empty regardless of any
// in-progress transfer or PIN change, since there is nothing yet to
// transfer or for the changed PIN to protect.
func Resolve(s Snapshot) Resolved {
	if s.VersionBlocked {
		return Resolved{State: StateBlocked, BlockedReason: BlockedReasonRequiresAppUpdate}
	}
	if s.ProviderBlocked {
		return Resolved{State: StateBlocked, BlockedReason: BlockedReasonBlockedByProvider}
	}
	if !s.Registered {
		return Resolved{State: StateRegistration}
	}

	flow := resolveFlow(s)
	return Resolved{State: flow, Locked: s.Locked, TransferRole: s.TransferRole}
}

func resolveFlow(s Snapshot) State {
	if s.AttestationCount == 0 {
		return StateEmpty
	}

	if s.TransferActive {
		if s.TransferRole == TransferRoleSource {
			return StateTransferring
		}
		if s.TransferRole == TransferRoleDestination {
			return StateTransferring
		}
		return StateTransferPossible
	}

	switch s.ActiveSession {
	case SessionDigid, SessionIssuance:
		return StateIssuance
	case SessionDisclosure:
		return StateDisclosure
	case SessionPinRecovery:
		return StatePinRecovery
	}

	if s.PinChangeActive {
		return StatePinChange
	}

	return StateReady
}
