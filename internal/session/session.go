// Package session implements the Session Orchestrator (C10): the TCP
// listener, per-connection handshake/decode loop, and the bounded worker
// pool that runs the post-decode pipeline (classify -> build -> send ->
// audit). Lifecycle management (stopChan/isRunning) follows the teacher's
// internal/j1939 protocol goroutine-pair pattern.
package session

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/halidi-hamidu/latra-gateway/internal/audit"
	"github.com/halidi-hamidu/latra-gateway/internal/classifier"
	"github.com/halidi-hamidu/latra-gateway/internal/directory"
	"github.com/halidi-hamidu/latra-gateway/internal/payload"
	"github.com/halidi-hamidu/latra-gateway/internal/teltonika"
	"github.com/halidi-hamidu/latra-gateway/internal/upstream"
)

// readBufSize bounds a single recv off the device socket. The Frame
// Recognizer (C2) classifies whatever one read returns as a complete IMEI
// handshake or AVL data frame (spec.md §4.2); this mirrors the one-recv-per-
// frame behavior trackers in the field actually exhibit.
const readBufSize = 4096

// idleTimeout bounds how long a connection may go without data before it is
// dropped (spec.md §4.10).
const idleTimeout = 30 * time.Second

// Logger is the minimal structured-logging contract (charmbracelet/log
// satisfies it), matching the teacher's use of a single package-wide logger.
type Logger interface {
	Info(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}

// Orchestrator owns the TCP listener and the bounded pipeline worker pool.
type Orchestrator struct {
	addr      string
	workers   int64
	directory *directory.Directory
	builder   *payload.Builder
	sender    *upstream.Client
	sink      *audit.Sink
	logger    Logger

	listener net.Listener
	sem      *semaphore.Weighted
	wg       sync.WaitGroup

	mu        sync.Mutex
	isRunning bool
	stopChan  chan struct{}
}

// New builds an Orchestrator. workers bounds the post-decode pipeline's
// concurrency (default 10, spec.md §2/§4.10).
func New(addr string, workers int, dir *directory.Directory, builder *payload.Builder, sender *upstream.Client, sink *audit.Sink, logger Logger) *Orchestrator {
	if workers <= 0 {
		workers = 10
	}
	return &Orchestrator{
		addr:      addr,
		workers:   int64(workers),
		directory: dir,
		builder:   builder,
		sender:    sender,
		sink:      sink,
		logger:    logger,
		sem:       semaphore.NewWeighted(int64(workers)),
		stopChan:  make(chan struct{}),
	}
}

// Start binds the listener and begins accepting connections. It returns once
// the listener is bound; acceptance runs in the background until Stop.
func (o *Orchestrator) Start() error {
	o.mu.Lock()
	if o.isRunning {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already running")
	}
	ln, err := net.Listen("tcp", o.addr)
	if err != nil {
		o.mu.Unlock()
		return fmt.Errorf("listen on %s: %w", o.addr, err)
	}
	o.listener = ln
	o.isRunning = true
	o.mu.Unlock()

	o.logger.Info("session orchestrator listening", "addr", o.addr)
	go o.acceptLoop()
	return nil
}

// Stop closes the listener and waits for in-flight connections and pipeline
// jobs to drain.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.isRunning {
		o.mu.Unlock()
		return
	}
	o.isRunning = false
	close(o.stopChan)
	o.listener.Close()
	o.mu.Unlock()

	o.wg.Wait()
}

func (o *Orchestrator) acceptLoop() {
	for {
		conn, err := o.listener.Accept()
		if err != nil {
			select {
			case <-o.stopChan:
				return
			default:
				o.logger.Error("accept failed", "err", err.Error())
				continue
			}
		}
		o.wg.Add(1)
		go o.handleConnection(conn)
	}
}

func (o *Orchestrator) handleConnection(conn net.Conn) {
	defer o.wg.Done()
	defer conn.Close()

	var imei string
	buf := make([]byte, readBufSize)

	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))

		n, err := conn.Read(buf)
		if err != nil {
			if err != io.EOF {
				o.logger.Error("connection read error", "err", err.Error())
			}
			return
		}
		frame := append([]byte(nil), buf[:n]...)

		switch teltonika.Classify(frame, imei != "") {
		case teltonika.FrameIMEI:
			decoded, err := teltonika.DecodeIMEI(frame)
			if err != nil {
				o.logger.Error("imei decode failed", "err", err.Error())
				return
			}
			imei = decoded
			if _, err := conn.Write(teltonika.IMEIAck); err != nil {
				return
			}
		case teltonika.FrameAVLData:
			result := teltonika.ParsePacket(frame)
			ack := make([]byte, 4)
			binary.BigEndian.PutUint32(ack, uint32(len(result.Records)))
			if _, err := conn.Write(ack); err != nil {
				return
			}
			for _, rec := range result.Records {
				o.dispatch(imei, frame, rec)
			}
		case teltonika.FrameUnknown:
			// too few bytes in this read to classify; they are dropped (not
			// kept for the next read) and the loop waits for the device's
			// next write rather than tearing the connection down.
			continue
		case teltonika.FrameDiscarded:
			// AVL-shaped frame before any IMEI handshake; drop it and keep
			// the connection open (spec.md §4.2).
			o.logger.Error("discarding data frame before imei handshake")
			continue
		default:
			o.logger.Error("malformed frame", "imei", imei)
			return
		}
	}
}

// dispatch schedules one record's post-decode pipeline job on the bounded
// worker pool. Acquiring the semaphore blocks when all workers are busy,
// providing backpressure to the connection's read loop.
func (o *Orchestrator) dispatch(imei string, frame []byte, rec *teltonika.Record) {
	ctx := context.Background()
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer o.sem.Release(1)
		o.process(imei, frame, rec)
	}()
}

func (o *Orchestrator) process(imei string, frame []byte, rec *teltonika.Record) {
	identity, err := o.directory.Lookup(imei)
	if err != nil {
		o.logger.Error("vehicle lookup failed", "imei", imei, "err", err.Error())
		return
	}

	activity := classifier.Classify(rec)
	now := time.Now()
	item := o.builder.Build(rec, activity, now)

	batch := payload.Batch{
		Registration: identity.Registration,
		IMEI:         imei,
		Type:         "poi",
		Items:        []payload.Item{item},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer cancel()
	result := o.sender.Send(ctx, batch)

	response := "ok"
	if !result.Success && result.Error != nil {
		response = result.Error.Error()
	}
	decodedForm := fmt.Sprintf("event_id=%d activity=%d speed=%d lat=%.7f lon=%.7f io_count=%d",
		rec.EventID, activity, rec.Speed, rec.Latitude, rec.Longitude, rec.IOElements.Len())
	o.sink.Record(now.UnixNano(), imei, identity.Registration, activity, identity.Transient, result.Success,
		hex.EncodeToString(frame), decodedForm, response)
}
