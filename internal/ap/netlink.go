package ap

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/mdlayher/genetlink"
	"github.com/mdlayher/netlink"
)

// CommandID identifies one in-flight netlink command, scoped to the
// Transport that issued it. It is transport-local bookkeeping: the kernel
// does not hand back a synchronous id from genetlink.Conn.Execute, so this
// is what Cancel and reply delivery use to recognize a command.
type CommandID uint32

// ReplyFunc is invoked at most once with the command's outcome: 0 for
// success, a negative errno-style value otherwise.
type ReplyFunc func(errCode int)

// Frame is a received management frame's addressing and IE body.
type Frame struct {
	Ifindex             uint32
	Addr1, Addr2, Addr3 [6]byte
	Body                []byte
}

// Event is either a completed command reply or a received frame
// notification, never both. Transport delivers both kinds through the same
// channel so a single consumer goroutine processes them in strict receipt
// order -- the event-loop discipline the AP state machine depends on.
type Event struct {
	ErrCode  int
	callback ReplyFunc
	Frame    *Frame
}

// IsFrame reports whether this event is a frame notification rather than a
// command reply.
func (e Event) IsFrame() bool { return e.Frame != nil }

// Deliver invokes the reply callback carried by a command-reply event. It
// is a no-op for frame events.
func (e Event) Deliver() {
	if e.callback != nil {
		e.callback(e.ErrCode)
	}
}

// Transport is the asynchronous command/reply boundary between the AP
// state machine and the kernel's generic-netlink nl80211 family. Send and
// WatchFrame may be called from any goroutine; Events must be drained by a
// single consumer for the ordering guarantee to hold.
type Transport interface {
	// Send submits cmd with pre-encoded attrs, returning an id that can
	// later be passed to Cancel. reply fires via an Event on Events(), not
	// synchronously.
	Send(cmd uint8, attrs []byte, reply ReplyFunc) CommandID

	// Cancel marks id's reply as dropped: if it has not yet arrived, its
	// callback is discarded instead of delivered.
	Cancel(id CommandID)

	// WatchFrame subscribes to a management-frame type on ifindex,
	// returning a watch id for Unwatch (0 means registration failed).
	// Matching frames are delivered as frame Events.
	WatchFrame(ifindex uint32, frameType uint16) (uint32, error)

	// Unwatch cancels a previous WatchFrame subscription. A zero id is a
	// no-op (it marks a failed registration, never an active one).
	Unwatch(watchID uint32)

	// Events delivers command replies and frame notifications in receipt
	// order.
	Events() <-chan Event

	Close() error
}

// genlTransport is the real Transport, backed by mdlayher/genetlink.
type genlTransport struct {
	conn   *genetlink.Conn
	family genetlink.Family

	nextID uint32

	mu        sync.Mutex
	cancelled map[CommandID]struct{}

	events    chan Event
	closeOnce sync.Once
	done      chan struct{}
}

// NewGenlTransport dials generic netlink, resolves the nl80211 family, and
// joins its "mlme" multicast group so management-frame notifications (in
// particular Probe Request) reach Events.
func NewGenlTransport() (*genlTransport, error) {
	conn, err := genetlink.Dial(nil)
	if err != nil {
		return nil, fmt.Errorf("ap: dial generic netlink: %w", err)
	}

	family, err := conn.GetFamily("nl80211")
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ap: resolve nl80211 family: %w", err)
	}

	var mlmeGroup uint32
	for _, g := range family.Groups {
		if g.Name == "mlme" {
			mlmeGroup = g.ID
		}
	}
	if mlmeGroup != 0 {
		if err := conn.JoinGroup(mlmeGroup); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ap: join mlme multicast group: %w", err)
		}
	}

	t := &genlTransport{
		conn:      conn,
		family:    family,
		cancelled: make(map[CommandID]struct{}),
		events:    make(chan Event, 16),
		done:      make(chan struct{}),
	}
	go t.receiveLoop()
	return t, nil
}

func (t *genlTransport) Send(cmd uint8, attrs []byte, reply ReplyFunc) CommandID {
	id := CommandID(atomic.AddUint32(&t.nextID, 1))

	msg := genetlink.Message{
		Header: genetlink.Header{Command: cmd, Version: t.family.Version},
		Data:   attrs,
	}

	go func() {
		_, err := t.conn.Execute(msg, t.family.ID, netlink.Request|netlink.Acknowledge)

		t.mu.Lock()
		_, cancelled := t.cancelled[id]
		delete(t.cancelled, id)
		t.mu.Unlock()
		if cancelled {
			return
		}

		select {
		case t.events <- Event{ErrCode: errCodeOf(err), callback: reply}:
		case <-t.done:
		}
	}()

	return id
}

// errCodeOf extracts the verbatim negative errno the kernel returned for a
// failed command, so callers can distinguish e.g. EPERM from EBUSY rather
// than seeing a single flattened failure code. Falls back to -1 if err
// doesn't unwrap to a syscall.Errno (e.g. a transport-level failure that
// never reached the kernel).
func errCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}
	var opErr *netlink.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		if errors.As(opErr.Err, &errno) {
			return -int(errno)
		}
	}
	return -1
}

func (t *genlTransport) Cancel(id CommandID) {
	t.mu.Lock()
	t.cancelled[id] = struct{}{}
	t.mu.Unlock()
}

// WatchFrame registers interest in frameType management frames on ifindex.
// The real NL80211_CMD_REGISTER_FRAME command is wdev-scoped and tied to
// the lifetime of the issuing socket rather than cancellable by id the way
// START_AP/STOP_AP are; it is modeled here as a request/reply command so
// the AP state machine can treat watch registration uniformly with the
// rest of its setup sequence (§4.4's "poison AP creation on failure" rule).
func (t *genlTransport) WatchFrame(ifindex uint32, frameType uint16) (uint32, error) {
	ae := newAttrEncoder()
	ae.Uint32(attrIfindex, ifindex)
	ae.Uint16(attrFrameType, frameType)
	attrs, err := ae.Encode()
	if err != nil {
		return 0, fmt.Errorf("ap: encode frame watch attrs: %w", err)
	}

	msg := genetlink.Message{
		Header: genetlink.Header{Command: cmdRegisterFrame, Version: t.family.Version},
		Data:   attrs,
	}
	if _, err := t.conn.Execute(msg, t.family.ID, netlink.Request|netlink.Acknowledge); err != nil {
		return 0, fmt.Errorf("ap: register frame watch: %w", err)
	}

	return atomic.AddUint32(&t.nextID, 1), nil
}

// Unwatch is a no-op on the real transport: frame-watch deregistration
// happens implicitly when the owning netlink socket closes.
func (t *genlTransport) Unwatch(watchID uint32) {}

func (t *genlTransport) Events() <-chan Event { return t.events }

func (t *genlTransport) receiveLoop() {
	for {
		msgs, _, err := t.conn.Receive()
		if err != nil {
			return
		}
		for _, m := range msgs {
			frame, ok := parseFrameNotification(m)
			if !ok {
				continue
			}
			select {
			case t.events <- Event{Frame: frame}:
			case <-t.done:
				return
			}
		}
	}
}

func (t *genlTransport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return t.conn.Close()
}
