package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"delice/internal/domain"
	"delice/internal/payment"
	"delice/internal/store"
)

// The checkout runs as a linear machine with two halves: Begin carries
// it from Idle to AwaitingRedirect (order created, payment session
// open, customer sent to the hosted page), and the callback round trip
// finishes it via Complete. Failed absorbs every exit; nothing is
// retried.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateCreatingOrder
	StateInitializingPayment
	StateAwaitingRedirect
	StateVerifyingPayment
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:                "idle",
	StateValidating:          "validating",
	StateCreatingOrder:       "creating_order",
	StateInitializingPayment: "initializing_payment",
	StateAwaitingRedirect:    "awaiting_redirect",
	StateVerifyingPayment:    "verifying_payment",
	StateCompleted:           "completed",
	StateFailed:              "failed",
}

func (s State) String() string { return stateNames[s] }

// Local validation failures and the cancellation halt. Cancellation is
// not an error in the remote sense but still ends the attempt.
var (
	ErrCartEmpty     = errors.New("empty cart")
	ErrLoginRequired = errors.New("login required")
	ErrCancelled     = errors.New("payment cancelled")
)

type Contact struct {
	Name  string
	Phone string
	Notes string
}

// OrderCreator is the slice of the order service the sequence needs.
type OrderCreator interface {
	Create(ctx context.Context, token string, contact Contact, lines []domain.OrderLine, total float64) (domain.Order, error)
}

// Gateway is the payment collaborator surface.
type Gateway interface {
	Init(ctx context.Context, token string, amount int64, email, orderID, callbackURL string) (payment.InitResult, error)
	Verify(ctx context.Context, token, reference, orderID string) (payment.VerifyResult, error)
}

// Sequence tracks one checkout attempt.
type Sequence struct {
	mu      sync.Mutex
	state   State
	orderID string
	initRef string
	failure error
}

func (s *Sequence) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequence) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// legal transitions; Failed is reachable from every non-terminal state.
var next = map[State]State{
	StateIdle:                StateValidating,
	StateValidating:          StateCreatingOrder,
	StateCreatingOrder:       StateInitializingPayment,
	StateInitializingPayment: StateAwaitingRedirect,
	StateAwaitingRedirect:    StateVerifyingPayment,
	StateVerifyingPayment:    StateCompleted,
}

func (s *Sequence) advance(to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCompleted || s.state == StateFailed {
		return fmt.Errorf("checkout already %s", s.state)
	}
	if next[s.state] != to {
		return fmt.Errorf("illegal checkout transition %s -> %s", s.state, to)
	}
	s.state = to
	return nil
}

func (s *Sequence) fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted && s.state != StateFailed {
		s.state = StateFailed
		s.failure = err
	}
	return err
}

// Coordinator owns the in-flight sequences, keyed by order id between
// the redirect out and the callback in.
type Coordinator struct {
	Cart        *store.Cart
	Session     *store.Session
	Orders      OrderCreator
	Gateway     Gateway
	CallbackURL string

	mu      sync.Mutex
	pending map[string]*Sequence
}

func NewCoordinator(cart *store.Cart, session *store.Session, orders OrderCreator, gw Gateway, callbackURL string) *Coordinator {
	return &Coordinator{
		Cart:        cart,
		Session:     session,
		Orders:      orders,
		Gateway:     gw,
		CallbackURL: callbackURL,
		pending:     map[string]*Sequence{},
	}
}

type BeginResult struct {
	OrderID          string `json:"order_id"`
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// Begin validates locally, creates the pending order and opens the
// payment session. Both guards fire before any network I/O.
func (c *Coordinator) Begin(ctx context.Context, contact Contact) (BeginResult, error) {
	seq := &Sequence{state: StateIdle}

	if err := seq.advance(StateValidating); err != nil {
		return BeginResult{}, err
	}
	items, total := c.Cart.Snapshot()
	if len(items) == 0 || total <= 0 {
		return BeginResult{}, seq.fail(ErrCartEmpty)
	}
	sess := c.Session.Current()
	if sess.Empty() {
		return BeginResult{}, seq.fail(ErrLoginRequired)
	}

	if err := seq.advance(StateCreatingOrder); err != nil {
		return BeginResult{}, err
	}
	if contact.Name == "" {
		contact.Name = sess.User.Email
	}
	if contact.Name == "" {
		contact.Name = "Guest"
	}
	order, err := c.Orders.Create(ctx, sess.AccessToken, contact, c.Cart.Lines(), total)
	if err != nil {
		return BeginResult{}, seq.fail(err)
	}

	if err := seq.advance(StateInitializingPayment); err != nil {
		return BeginResult{}, err
	}
	amount := payment.MinorUnits(total)
	email := sess.User.Email
	if email == "" {
		email = "customer@example.com"
	}
	callback := c.CallbackURL + "?order_id=" + url.QueryEscape(order.ID)
	init, err := c.Gateway.Init(ctx, sess.AccessToken, amount, email, order.ID, callback)
	if err != nil {
		return BeginResult{}, seq.fail(err)
	}

	if err := seq.advance(StateAwaitingRedirect); err != nil {
		return BeginResult{}, err
	}
	seq.mu.Lock()
	seq.orderID = order.ID
	seq.initRef = init.Reference
	seq.mu.Unlock()

	c.mu.Lock()
	c.pending[order.ID] = seq
	c.mu.Unlock()

	return BeginResult{OrderID: order.ID, AuthorizationURL: init.AuthorizationURL, Reference: init.Reference}, nil
}

func (c *Coordinator) take(orderID string) (*Sequence, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seq, ok := c.pending[orderID]
	if !ok {
		return nil, fmt.Errorf("no checkout in flight for order %s", orderID)
	}
	delete(c.pending, orderID)
	return seq, nil
}

// Complete consumes the callback: extract the reference, verify it
// server-side, and only then clear the cart. The verified reference is
// returned as the tracking code.
func (c *Coordinator) Complete(ctx context.Context, orderID string, query url.Values) (string, error) {
	seq, err := c.take(orderID)
	if err != nil {
		return "", err
	}
	if err := seq.advance(StateVerifyingPayment); err != nil {
		return "", err
	}
	ref := payment.ExtractReference(query, seq.initRef)
	if ref == "" {
		return "", seq.fail(errors.New("missing payment reference"))
	}
	res, err := c.Gateway.Verify(ctx, c.Session.Token(), ref, orderID)
	if err != nil {
		return "", seq.fail(err)
	}
	if !res.Paid {
		status := res.Status
		if status == "" {
			status = "unknown"
		}
		return "", seq.fail(fmt.Errorf("payment not successful: %s", status))
	}
	if err := seq.advance(StateCompleted); err != nil {
		return "", err
	}
	c.Cart.Clear()
	return ref, nil
}

// Cancel ends an in-flight attempt when the customer never came back
// from the hosted page.
func (c *Coordinator) Cancel(orderID string) error {
	seq, err := c.take(orderID)
	if err != nil {
		return err
	}
	return seq.fail(ErrCancelled)
}

// Pending reports whether an attempt is parked for the order.
func (c *Coordinator) Pending(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.pending[orderID]
	return ok
}
