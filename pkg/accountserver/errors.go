package accountserver

import "errors"

// Errors surfaced by registration and instruction handling.
var (
	ErrWalletBlocked        = errors.New("accountserver: wallet is blocked after too many failed pin attempts")
	ErrWalletInCooldown     = errors.New("accountserver: wallet is in pin retry cooldown")
	ErrWalletNotRegistered  = errors.New("accountserver: wallet is not registered")
	ErrKeyNotFound          = errors.New("accountserver: requested key identifier not found")
	ErrPinChangeNotStarted  = errors.New("accountserver: no pin change in progress")
	ErrPinChangeInProgress  = errors.New("accountserver: a pin change is already in progress")
)
