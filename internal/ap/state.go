package ap

import (
	"sync"

	"github.com/google/gopacket/layers"

	"github.com/lcalzada-xor/softapd/internal/core/domain"
)

// Module is the process-wide soft AP state machine. One Module owns one
// Transport and drives every AP instance's
// Idle -> Starting -> Running -> Stopping -> Stopped lifecycle from a
// single goroutine (run), so no instance's State is ever touched by two
// goroutines at once. Start and Stop may be called from any goroutine;
// anything that needs to observe or mutate an existing instance's State
// is funneled through ctrl so it executes on that one goroutine.
type Module struct {
	transport Transport
	ctrl      chan func()

	mu        sync.Mutex
	instances map[string]*domain.AP
	byIfindex map[uint32]*domain.AP
}

// NewModule starts the event loop and returns a ready Module. Close must
// be called to release the underlying transport.
func NewModule(transport Transport) *Module {
	m := &Module{
		transport: transport,
		ctrl:      make(chan func()),
		instances: make(map[string]*domain.AP),
		byIfindex: make(map[uint32]*domain.AP),
	}
	go m.run()
	return m
}

func (m *Module) run() {
	events := m.transport.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.IsFrame() {
				m.handleFrame(ev.Frame)
			} else {
				ev.Deliver()
			}
		case fn, ok := <-m.ctrl:
			if !ok {
				return
			}
			fn()
		}
	}
}

// Close stops the event loop and closes the underlying transport. Any AP
// instances still running are abandoned, not torn down gracefully: callers
// are expected to Stop every device first.
func (m *Module) Close() error {
	close(m.ctrl)
	return m.transport.Close()
}

// Start brings up a BSS on ifindex. It returns synchronously once the
// START_AP command has been submitted to the kernel; cb later receives
// exactly one EventStarted (if the kernel accepts it) followed by exactly
// one EventStopped (whenever the BSS comes down, for any reason),
// regardless of which path terminates it. If the frame/attribute encoding
// fails before anything reaches the kernel, Start returns ErrIO and no
// event is ever delivered -- nothing was created to tear down.
func (m *Module) Start(deviceID string, ifindex uint32, bssid [6]byte, ssid, psk string, channel int, beaconInterval uint16, cb domain.EventCallback) error {
	m.mu.Lock()
	if _, exists := m.instances[deviceID]; exists {
		m.mu.Unlock()
		return ErrAlreadyExists
	}
	apState := &domain.AP{
		DeviceID:       deviceID,
		Ifindex:        ifindex,
		BSSID:          bssid,
		SSID:           ssid,
		PSK:            []byte(psk),
		Channel:        channel,
		Ciphers:        domain.CipherCCMP,
		BeaconInterval: beaconInterval,
		Rates:          []int{2, 11, 22},
		EventCB:        cb,
		State:          domain.StateStarting,
	}
	m.instances[deviceID] = apState
	m.byIfindex[ifindex] = apState
	m.mu.Unlock()

	head, err := BuildBeaconPRHead(apState, layers.Dot11TypeMgmtBeacon, broadcastAddr)
	if err != nil {
		m.abortCreate(apState)
		return ErrIO
	}
	tail, err := BuildBeaconPRTail(apState)
	if err != nil {
		m.abortCreate(apState)
		return ErrIO
	}
	rsne, err := BuildRSNIE(apState)
	if err != nil {
		m.abortCreate(apState)
		return ErrIO
	}
	attrs, err := buildStartAPAttrs(apState, head, tail, rsne)
	if err != nil {
		m.abortCreate(apState)
		return ErrIO
	}

	watchID, err := m.transport.WatchFrame(ifindex, probeRequestFrameType)
	if err != nil {
		m.abortCreate(apState)
		return ErrIO
	}
	apState.FrameWatchIDs = append(apState.FrameWatchIDs, watchID)
	observeStateGauge(apState)

	id := m.transport.Send(cmdStartAP, attrs, func(errCode int) {
		m.onStartAPReply(apState, errCode)
	})
	apState.StartStopCmdID = uint32(id)

	return nil
}

// abortCreate unwinds a Start call that failed before reaching the kernel:
// the instance is removed as if it had never existed, with no event fired.
func (m *Module) abortCreate(apState *domain.AP) {
	m.mu.Lock()
	delete(m.instances, apState.DeviceID)
	delete(m.byIfindex, apState.Ifindex)
	m.mu.Unlock()
	apState.ZeroPSK()
}

// onStartAPReply runs on the event loop (delivered via Events/Deliver), so
// it may read and mutate apState.State without further synchronization.
func (m *Module) onStartAPReply(apState *domain.AP, errCode int) {
	observeCommandOutcome(cmdStartAP, errCode)
	if apState.State != domain.StateStarting {
		return // superseded by a Stop issued before the reply arrived
	}
	if errCode != 0 {
		m.finishStop(apState)
		return
	}
	apState.State = domain.StateRunning
	observeStateGauge(apState)
	if apState.EventCB != nil {
		apState.EventCB(apState.DeviceID, domain.EventStarted)
	}
}

// Stop tears down the BSS bound to deviceID. It blocks until the state
// transition has been applied on the event loop, though the underlying
// STOP_AP command and its EventStopped delivery remain asynchronous.
func (m *Module) Stop(deviceID string) error {
	m.mu.Lock()
	apState, exists := m.instances[deviceID]
	m.mu.Unlock()
	if !exists {
		return ErrNoDevice
	}

	done := make(chan struct{})
	m.ctrl <- func() {
		m.stopLocked(apState)
		close(done)
	}
	<-done
	return nil
}

// stopLocked runs on the event loop. Stop is idempotent: calling it twice,
// or calling it while a START_AP reply is still in flight, never produces
// more than the one EventStopped a successful Start is owed.
func (m *Module) stopLocked(apState *domain.AP) {
	switch apState.State {
	case domain.StateStopping, domain.StateStopped:
		return
	case domain.StateStarting:
		m.transport.Cancel(CommandID(apState.StartStopCmdID))
		m.finishStop(apState)
	case domain.StateRunning:
		apState.State = domain.StateStopping
		m.sendStopAP(apState)
	}
}

func (m *Module) sendStopAP(apState *domain.AP) {
	attrs, err := buildStopAPAttrs(apState.Ifindex)
	if err != nil {
		m.finishStop(apState)
		return
	}
	id := m.transport.Send(cmdStopAP, attrs, func(errCode int) {
		observeCommandOutcome(cmdStopAP, errCode)
		m.finishStop(apState)
	})
	apState.StartStopCmdID = uint32(id)
}

// finishStop releases every resource the instance held -- its registry
// slots, its frame-watch subscriptions, its PSK -- and delivers the one
// EventStopped it is owed. It runs on the event loop and is safe to call
// from any of the three paths that can terminate an instance (kernel
// rejection of START_AP, a graceful STOP_AP reply, or a Stop issued while
// still Starting).
func (m *Module) finishStop(apState *domain.AP) {
	if apState.State == domain.StateStopped {
		return
	}
	apState.State = domain.StateStopped
	observeStateGauge(apState)

	m.mu.Lock()
	delete(m.instances, apState.DeviceID)
	delete(m.byIfindex, apState.Ifindex)
	m.mu.Unlock()

	for _, id := range apState.FrameWatchIDs {
		m.transport.Unwatch(id)
	}
	apState.ZeroPSK()

	if apState.EventCB != nil {
		apState.EventCB(apState.DeviceID, domain.EventStopped)
	}
}

// handleFrame runs on the event loop. It classifies a received Probe
// Request and, on a match, transmits a Probe Response built from the same
// head/tail encoders Start used for the beacon template.
func (m *Module) handleFrame(frame *Frame) {
	m.mu.Lock()
	apState, ok := m.byIfindex[frame.Ifindex]
	m.mu.Unlock()
	if !ok || apState.State != domain.StateRunning {
		return
	}

	req := &ProbeRequest{Addr1: frame.Addr1, Addr2: frame.Addr2, Addr3: frame.Addr3, IEs: frame.Body}
	respond, dest := ShouldRespond(apState, req)
	if !respond {
		return
	}

	head, err := BuildBeaconPRHead(apState, layers.Dot11TypeMgmtProbeResp, dest)
	if err != nil {
		return
	}
	tail, err := BuildBeaconPRTail(apState)
	if err != nil {
		return
	}
	full := append(head, tail...)

	attrs, err := buildProbeRespAttrs(apState, full)
	if err != nil {
		return
	}
	probeResponsesTotal.WithLabelValues(apState.DeviceID).Inc()
	m.transport.Send(cmdFrame, attrs, func(errCode int) {
		observeCommandOutcome(cmdFrame, errCode)
	})
}
