package host

import (
	"context"

	corestore "cosmossdk.io/core/store"
)

// Entry points every contract implements
type Contract interface {
	Instantiate(ctx context.Context, env Env, info MessageInfo, msg []byte) (*Response, error)
	Execute(ctx context.Context, env Env, info MessageInfo, msg []byte) (*Response, error)
	Query(ctx context.Context, env Env, msg []byte) ([]byte, error)
}

// Implemented by contracts that dispatch sub-messages with a reply request
type Replier interface {
	Reply(ctx context.Context, env Env, reply Reply) (*Response, error)
}

// Implemented by contracts that accept migrations
type Migrator interface {
	Migrate(ctx context.Context, env Env, msg []byte) (*Response, error)
}

// Builds a contract instance bound to the storage of one address
type Factory func(store corestore.KVStoreService) Contract

type Code struct {
	ID      uint64
	Name    string
	factory Factory
}

// Registered contract instance
type ContractMeta struct {
	CodeID  uint64 `json:"code_id"`
	Creator string `json:"creator"`
	Admin   string `json:"admin,omitempty"`
	Label   string `json:"label"`
	Created int64  `json:"created"`
}
