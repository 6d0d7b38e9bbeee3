package host

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	collcodec "cosmossdk.io/collections/codec"
	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Contract storage lives in the wasm store under this prefix followed by the contract address
var contractStorePrefix = []byte{0x03}

// Exposes a cache-wrapped sdk store through the core store API used by collections
type coreStore struct {
	parent storetypes.KVStore
}

func (self coreStore) Get(key []byte) ([]byte, error) {
	return self.parent.Get(key), nil
}

func (self coreStore) Has(key []byte) (bool, error) {
	return self.parent.Has(key), nil
}

func (self coreStore) Set(key, value []byte) error {
	self.parent.Set(key, value)
	return nil
}

func (self coreStore) Delete(key []byte) error {
	self.parent.Delete(key)
	return nil
}

func (self coreStore) Iterator(start, end []byte) (corestore.Iterator, error) {
	return self.parent.Iterator(start, end), nil
}

func (self coreStore) ReverseIterator(start, end []byte) (corestore.Iterator, error) {
	return self.parent.ReverseIterator(start, end), nil
}

// Storage of a single contract. Opened against whatever branch the context carries,
// so writes made inside a sub-message vanish together with the branch.
type contractStoreService struct {
	key    *storetypes.KVStoreKey
	prefix []byte
}

func newContractStoreService(key *storetypes.KVStoreKey, addr sdk.AccAddress) contractStoreService {
	p := make([]byte, 0, len(contractStorePrefix)+len(addr))
	p = append(p, contractStorePrefix...)
	p = append(p, addr...)
	return contractStoreService{key: key, prefix: p}
}

func (self contractStoreService) OpenKVStore(ctx context.Context) corestore.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return coreStore{parent: prefix.NewStore(sdkCtx.KVStore(self.key), self.prefix)}
}

type jsonValue[T any] struct{}

// JSON value codec for collections, contracts keep their state the way CosmWasm contracts do
func JSONValue[T any]() collcodec.ValueCodec[T] {
	return jsonValue[T]{}
}

func (jsonValue[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonValue[T]) Decode(b []byte) (value T, err error) {
	err = json.Unmarshal(b, &value)
	return
}

func (self jsonValue[T]) EncodeJSON(value T) ([]byte, error) {
	return self.Encode(value)
}

func (self jsonValue[T]) DecodeJSON(b []byte) (T, error) {
	return self.Decode(b)
}

func (self jsonValue[T]) Stringify(value T) string {
	b, err := self.Encode(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(b)
}

func (jsonValue[T]) ValueType() string {
	var zero T
	return "json/" + reflect.TypeOf(&zero).Elem().String()
}
