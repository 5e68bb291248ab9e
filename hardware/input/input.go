// Package input turns key and rotary encoder hardware into per-iteration state:
// KeyHandler and EncoderHandler consume polled sources, the rest of the package are sources.
package input

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/keypad/helpers"
	"github.com/temoto/keypad/log2"
)

// KeySource yields at most one event per poll, nil when nothing happened. Must not block.
type KeySource interface {
	PollKey() *KeyEvent
}

// EncoderSource reports absolute position and debounced press edges. Must not block.
type EncoderSource interface {
	Position() int
	SwitchEdge() bool
}

// SwitchHolder is optional EncoderSource extension reporting push switch held right now.
type SwitchHolder interface {
	SwitchDown() bool
}

// Source is a blocking reader, e.g. Linux input device. Queue.Run adapts it to KeySource.
type Source interface {
	Read() (KeyEvent, error)
	String() string
}

const DefaultQueueSize = 32

// Queue is a FIFO KeySource, fed by Push or by Sources read in background.
type Queue struct {
	Log *log2.Log
	bus chan KeyEvent
}

// compile-time interface compliance test
var _ KeySource = new(Queue)

func NewQueue(log *log2.Log, size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		Log: log,
		bus: make(chan KeyEvent, size),
	}
}

// Push does not block, event is dropped when queue is full.
func (self *Queue) Push(e KeyEvent) bool {
	select {
	case self.bus <- e:
		self.Log.Debugf("input push %s", e)
		return true
	default:
		self.Log.Errorf("input queue full, dropped %s", e)
		return false
	}
}

func (self *Queue) PollKey() *KeyEvent {
	select {
	case e := <-self.bus:
		return &e
	default:
		return nil
	}
}

func (self *Queue) Len() int { return len(self.bus) }

// Run starts a reader goroutine per source. Readers exit on source EOF or a.Stop().
func (self *Queue) Run(a *alive.Alive, sources []Source) {
	for _, source := range sources {
		if !a.Add(1) {
			return
		}
		go self.readSource(a, source)
	}
}

func (self *Queue) Drain() { Drain(self.bus) }

func Drain(ch <-chan KeyEvent) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func (self *Queue) readSource(a *alive.Alive, source Source) {
	defer a.Done()
	tag := source.String()
	stopch := a.StopChan()
	for {
		event, err := source.Read()
		if err != nil {
			if errors.Cause(err) == io.EOF {
				self.Log.Debugf("input source=%s closed", tag)
				return
			}
			err = errors.Annotatef(err, "input source=%s", tag)
			self.Log.Error(errors.ErrorStack(err))
			return
		}
		select {
		case self.bus <- event:
			self.Log.Debugf("input source=%s %s", tag, event)
		case <-stopch:
			return
		}
	}
}

// MergeKeys polls sources in order, first event wins.
// Queue fed by background readers must be in the list, otherwise its bus fills and readers stall.
type MergeKeys []KeySource

// compile-time interface compliance test
var _ KeySource = MergeKeys{}

func (self MergeKeys) PollKey() *KeyEvent {
	for _, s := range self {
		if e := s.PollKey(); e != nil {
			return e
		}
	}
	return nil
}

// Scan samples sources that need it, like GPIOKeys.
func (self MergeKeys) Scan(now time.Time) error {
	var errs []error
	for _, s := range self {
		if sc, ok := s.(interface{ Scan(time.Time) error }); ok {
			if err := sc.Scan(now); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return helpers.FoldErrors(errs)
}

// ManualEncoder is EncoderSource driven by code: simulator commands and tests.
type ManualEncoder struct {
	pos    int64
	clicks int32
	down   int32
}

// compile-time interface compliance test
var _ EncoderSource = new(ManualEncoder)
var _ SwitchHolder = new(ManualEncoder)

func (self *ManualEncoder) Turn(delta int) { atomic.AddInt64(&self.pos, int64(delta)) }
func (self *ManualEncoder) Click()         { atomic.AddInt32(&self.clicks, 1) }
func (self *ManualEncoder) Position() int  { return int(atomic.LoadInt64(&self.pos)) }

// Hold sets switch held state, press edge is counted separately by Click.
func (self *ManualEncoder) Hold(down bool) {
	var v int32
	if down {
		v = 1
	}
	atomic.StoreInt32(&self.down, v)
}
func (self *ManualEncoder) SwitchDown() bool { return atomic.LoadInt32(&self.down) != 0 }

// SwitchEdge reports one pending click per call.
func (self *ManualEncoder) SwitchEdge() bool { return takeEdge(&self.clicks) }

func takeEdge(counter *int32) bool {
	for {
		n := atomic.LoadInt32(counter)
		if n <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(counter, n, n-1) {
			return true
		}
	}
}

// SplitEncoder takes rotation and push switch from different sources,
// e.g. rotary-encoder evdev device and GPIO switch line. Nil part reads as idle.
type SplitEncoder struct {
	Rotation interface{ Position() int }
	Switch   interface{ SwitchEdge() bool }
}

// compile-time interface compliance test
var _ EncoderSource = SplitEncoder{}
var _ SwitchHolder = SplitEncoder{}

func (self SplitEncoder) Position() int {
	if self.Rotation == nil {
		return 0
	}
	return self.Rotation.Position()
}

func (self SplitEncoder) SwitchEdge() bool {
	if self.Switch == nil {
		return false
	}
	return self.Switch.SwitchEdge()
}

// SwitchDown is false when switch part can't tell held state.
func (self SplitEncoder) SwitchDown() bool {
	if h, ok := self.Switch.(SwitchHolder); ok {
		return h.SwitchDown()
	}
	return false
}
