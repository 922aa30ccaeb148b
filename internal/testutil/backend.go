// Package testutil provides in-memory fakes for exercising chain-facing
// code without a node.
package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// Backend is a scriptable stand-in for an Ethereum client. Contract reads
// are routed through CallFn, historical log queries return PastLogs, and
// live logs are pushed to subscribers with EmitLog.
type Backend struct {
	CallFn       func(msg ethereum.CallMsg) ([]byte, error)
	Head         uint64
	PastLogs     []gethtypes.Log
	SubscribeErr error

	mu      sync.Mutex
	queries []ethereum.FilterQuery
	sinks   []chan<- gethtypes.Log
}

func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if b.CallFn == nil {
		return nil, errors.New("no call handler configured")
	}

	return b.CallFn(msg)
}

func (b *Backend) BlockNumber(_ context.Context) (uint64, error) {
	return b.Head, nil
}

func (b *Backend) FilterLogs(_ context.Context, q ethereum.FilterQuery) ([]gethtypes.Log, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queries = append(b.queries, q)
	return b.PastLogs, nil
}

func (b *Backend) SubscribeFilterLogs(_ context.Context, q ethereum.FilterQuery, ch chan<- gethtypes.Log) (ethereum.Subscription, error) {
	if b.SubscribeErr != nil {
		return nil, b.SubscribeErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.queries = append(b.queries, q)
	b.sinks = append(b.sinks, ch)
	return NewSubscription(), nil
}

// EmitLog delivers a log to every active subscriber.
func (b *Backend) EmitLog(log gethtypes.Log) {
	b.mu.Lock()
	sinks := make([]chan<- gethtypes.Log, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.Unlock()

	for _, sink := range sinks {
		sink <- log
	}
}

// Queries returns every filter query and subscription query seen so far.
func (b *Backend) Queries() []ethereum.FilterQuery {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]ethereum.FilterQuery, len(b.queries))
	copy(out, b.queries)
	return out
}

// Subscription is a no-op ethereum.Subscription whose error channel closes
// on Unsubscribe.
type Subscription struct {
	errCh chan error
	once  sync.Once
}

func NewSubscription() *Subscription {
	return &Subscription{errCh: make(chan error)}
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.errCh)
	})
}

func (s *Subscription) Err() <-chan error {
	return s.errCh
}
