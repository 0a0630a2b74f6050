// Package account implements the simulator's Account Store: a mapping from
// account identifier to Account record, mutated only by the step executor at
// commit time and by explicit reset.
package account

import (
	"errors"
	"fmt"
	"os"

	logger "github.com/multiversx/mx-chain-logger-go"

	"github.com/multiversx/mx-contract-simulator/internal/bech32key"
)

var log = logger.GetOrCreate("account")

// DefaultBalance is the starting token balance given to every account on
// creation and on reset.
const DefaultBalance uint64 = 1_000_000_000_000

// DefaultStorageUsage is the storage-usage baseline assigned to every account
// on creation and on reset.
const DefaultStorageUsage uint64 = 60

// ErrUnknownAccount is returned when looking up an account id that was never added.
var ErrUnknownAccount = errors.New("unknown account")

// ErrMissingContract is returned when a contract image path does not resolve
// to an existing artifact at account-creation time.
var ErrMissingContract = errors.New("missing contract artifact")

// State is the decoded, externally-visible key/value view of a contract's
// persisted storage. The on-account representation consumed by the VM Driver
// is the encoded form; callers of the Store only ever see this decoded shape.
type State map[string][]byte

// Account is a single simulated on-chain account.
type Account struct {
	AccountID      string
	ContractImage  string // optional path to a contract binary; empty for plain accounts
	SignerKey      string // pure function of AccountID, see bech32key.Derive
	Balance        uint64
	LockedBalance  uint64
	StorageUsage   uint64
	State          State
	EncodedState   []byte // the driver-consumed encoded form of State
	Nonce          uint64 // incremented on every committed mutating call
}

func newAccount(id string, contractImage string) *Account {
	return &Account{
		AccountID:     id,
		ContractImage: contractImage,
		SignerKey:     bech32key.Derive(id),
		Balance:       DefaultBalance,
		StorageUsage:  DefaultStorageUsage,
		State:         State{},
	}
}

func (a *Account) reset() {
	a.Balance = DefaultBalance
	a.LockedBalance = 0
	a.StorageUsage = DefaultStorageUsage
	a.State = State{}
	a.EncodedState = nil
	a.Nonce = 0
}

// Store is the simulator's in-memory account table.
type Store struct {
	accounts map[string]*Account
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*Account)}
}

// NewAccount explicitly creates an account, failing if a non-empty
// contractImage path does not exist on disk.
func (s *Store) NewAccount(id string, contractImage string) (*Account, error) {
	if contractImage != "" {
		if _, err := os.Stat(contractImage); err != nil {
			log.Debug("contract artifact missing", "account", id, "path", contractImage)
			return nil, fmt.Errorf("%w: %s", ErrMissingContract, contractImage)
		}
	}

	acc := newAccount(id, contractImage)
	s.accounts[id] = acc
	return acc, nil
}

// GetOrCreate returns the account with the given id, creating a plain
// (no-contract) account on first reference if one does not yet exist.
func (s *Store) GetOrCreate(id string) *Account {
	acc, ok := s.accounts[id]
	if ok {
		return acc
	}

	acc = newAccount(id, "")
	s.accounts[id] = acc
	return acc
}

// Get looks up an account, failing with ErrUnknownAccount if absent.
func (s *Store) Get(id string) (*Account, error) {
	acc, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAccount, id)
	}
	return acc, nil
}

// ResetAll zeroes every account's balance, locked balance and state back to
// simulator defaults, without removing any account from the store.
func (s *Store) ResetAll() {
	for _, acc := range s.accounts {
		acc.reset()
	}
}

// Len reports how many accounts are currently tracked.
func (s *Store) Len() int {
	return len(s.accounts)
}
