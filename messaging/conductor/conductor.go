// Package conductor is the in-process ledger. Every state change is submitted here as a Tx, executed
// by a single writer goroutine that assigns caller nonces, and journaled to bbolt in the same
// transaction that applies it.
// Reads go straight to the minds.
package conductor

import (
	"context"
	"fmt"

	"fedid/engine/actors"
	"fedid/engine/library"
	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/sasha-s/go-deadlock"
)

type submission struct {
	tx    Tx
	reply chan result
}

type result struct {
	receipt Receipt
	err     error
}

type Conductor struct {
	journal     *journal
	clock       clockwork.Clock
	mu          *deadlock.Mutex
	nonces      map[library.Address]uint64
	submissions chan submission
	done        chan struct{}
	stopped     chan struct{}
	closeOnce   *deadlock.Once
	closeErr    error
	// set by the writer when a commit fails after the minds were changed
	failed error
}

// OpenDefault opens the journal named in the config.
func OpenDefault() (*Conductor, error) {
	return Open(actors.JournalPath(), nil)
}

// Open replays the journal at path and starts the writer. A nil clock means the wall clock.
func Open(path string, clock clockwork.Clock) (*Conductor, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	j, err := openJournal(path)
	if err != nil {
		library.LogCLI(fmt.Sprintf("could not open journal %s: %s", path, err), 1)
		return nil, err
	}
	c := &Conductor{
		journal:     j,
		clock:       clock,
		mu:          &deadlock.Mutex{},
		nonces:      make(map[library.Address]uint64),
		submissions: make(chan submission),
		done:        make(chan struct{}),
		stopped:     make(chan struct{}),
		closeOnce:   &deadlock.Once{},
	}
	r := &restorer{handles: make(map[handled]int)}
	var count int
	err = j.each(func(e Entry) error {
		if err := r.restore(e); err != nil {
			return fmt.Errorf("replaying journal entry %d: %w", e.Receipt.Seq, err)
		}
		if next := e.Receipt.Nonce + 1; next > c.nonces[e.Tx.From] {
			c.nonces[e.Tx.From] = next
		}
		count++
		return nil
	})
	if err != nil {
		library.LogCLI(err.Error(), 1)
		_ = j.db.Close()
		return nil, err
	}
	library.LogCLI(fmt.Sprintf("replayed %d journal entries from %s", count, path), 4)
	actors.GetWaitGroup().Add(1)
	go c.run()
	return c, nil
}

func (c *Conductor) run() {
	defer actors.GetWaitGroup().Done()
	defer close(c.stopped)
	terminate := actors.GetTerminateChan()
	for {
		select {
		case s := <-c.submissions:
			s.reply <- c.apply(s.tx)
		case <-c.done:
			return
		case <-terminate:
			library.LogCLI("Conductor has shut down", 4)
			return
		}
	}
}

// apply runs on the writer goroutine only. The entry is written before the minds are touched and
// both land in one bolt transaction, so a rejected or unjournaled tx leaves no trace.
func (c *Conductor) apply(tx Tx) result {
	defer library.ValidateSaneExecutionTime(string(tx.Kind))()
	if c.failed != nil {
		return result{err: fmt.Errorf("%w: %s", ErrJournalFailed, c.failed)}
	}
	ctx := library.CallerContext{From: tx.From, Nonce: c.Nonce(tx.From)}
	receipt, err := prepare(ctx, tx)
	if err != nil {
		library.LogCLI(fmt.Sprintf("%s from %s rejected: %s", tx.Kind, tx.From, err), 2)
		return result{err: err}
	}
	receipt.At = c.clock.Now().UTC()
	e := Entry{Tx: tx, Receipt: receipt}
	var rejected error
	applied, err := c.journal.record(&e, func() error {
		rejected = execute(ctx, tx, e.Receipt)
		return rejected
	})
	switch {
	case rejected != nil:
		library.LogCLI(fmt.Sprintf("%s from %s rejected: %s", tx.Kind, tx.From, rejected), 2)
		return result{err: rejected}
	case err != nil && applied:
		// the minds hold a change the journal does not, nothing more can be accepted safely
		c.failed = err
		c.spend(ctx)
		library.LogCLI(fmt.Sprintf("journal commit failed after applying %s from %s, refusing further submissions: %s", tx.Kind, tx.From, err), 0)
		return result{err: fmt.Errorf("%w: %s", ErrJournalFailed, err)}
	case err != nil:
		library.LogCLI(fmt.Sprintf("could not journal %s from %s: %s", tx.Kind, tx.From, err), 1)
		return result{err: err}
	}
	c.spend(ctx)
	library.LogCLI(fmt.Sprintf("journaled %s #%d from %s", tx.Kind, e.Receipt.Seq, tx.From), 3)
	return result{receipt: e.Receipt}
}

func (c *Conductor) spend(ctx library.CallerContext) {
	c.mu.Lock()
	c.nonces[ctx.From] = ctx.Nonce + 1
	c.mu.Unlock()
}

// Submit hands tx to the writer and waits for its receipt. ctx only bounds the wait for the writer
// to pick tx up; once it has, Submit waits for the outcome.
func (c *Conductor) Submit(ctx context.Context, tx Tx) (Receipt, error) {
	reply := make(chan result, 1)
	select {
	case c.submissions <- submission{tx: tx, reply: reply}:
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	case <-c.stopped:
		return Receipt{}, ErrClosed
	}
	r := <-reply
	return r.receipt, r.err
}

// Nonce is the nonce the next tx from from will be executed with.
func (c *Conductor) Nonce(from library.Address) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonces[from]
}

// Close stops the writer, then flushes and closes the journal.
func (c *Conductor) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		<-c.stopped
		var errs *multierror.Error
		if err := c.journal.db.Sync(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("sync journal: %w", err))
		}
		if err := c.journal.db.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close journal: %w", err))
		}
		c.closeErr = errs.ErrorOrNil()
	})
	return c.closeErr
}
