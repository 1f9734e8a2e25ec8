// Package tracking estimates the orientation of a handheld motion sensor
// on a background goroutine.
package tracking

import (
	"context"
	"sync"
	"time"

	"modelviewer/internal/logger"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Sample is one sensor reading. Gyro is the angular rate in radians per
// second around the device axes; Accel is the specific force in units of g,
// pointing up at rest.
type Sample struct {
	Gyro  mgl32.Vec3
	Accel mgl32.Vec3
}

// Sensor delivers readings. Sample may block until a reading is available.
type Sensor interface {
	Sample(ctx context.Context) (Sample, error)
}

// Options tune the filter.
type Options struct {
	// Interval between samples.
	Interval time.Duration
	// GravitySmoothing is the low-pass factor applied to accelerometer
	// readings, in (0, 1].
	GravitySmoothing float32
	// AccelWeight is the share of the tilt error corrected per sample.
	AccelWeight float32
	// GravityTolerance rejects readings whose magnitude differs from 1g by
	// more than this, since they are dominated by linear acceleration.
	GravityTolerance float32
}

func DefaultOptions() Options {
	return Options{
		Interval:         10 * time.Millisecond,
		GravitySmoothing: 0.1,
		AccelWeight:      0.02,
		GravityTolerance: 0.25,
	}
}

var up = mgl32.Vec3{0, 1, 0}

// Tracker fuses gyro and accelerometer readings into an orientation. The
// latest estimate is published behind a mutex; readers never wait for
// the sensor.
type Tracker struct {
	sensor Sensor
	opts   Options

	mu          sync.Mutex
	gravity     mgl32.Vec3
	haveGravity bool
	accumulated mgl32.Vec3
	gyro        mgl32.Quat
	accel       mgl32.Quat
	fused       mgl32.Quat
	samples     int
	failures    int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewTracker(sensor Sensor, opts Options) *Tracker {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.GravitySmoothing <= 0 || opts.GravitySmoothing > 1 {
		opts.GravitySmoothing = def.GravitySmoothing
	}
	if opts.AccelWeight < 0 || opts.AccelWeight > 1 {
		opts.AccelWeight = def.AccelWeight
	}
	if opts.GravityTolerance <= 0 {
		opts.GravityTolerance = def.GravityTolerance
	}
	return &Tracker{
		sensor: sensor,
		opts:   opts,
		gyro:   mgl32.QuatIdent(),
		accel:  mgl32.QuatIdent(),
		fused:  mgl32.QuatIdent(),
	}
}

// Start launches the sampling goroutine. Calling Start on a running
// tracker does nothing.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, t.done)
}

// Stop ends sampling and waits for the goroutine to exit.
func (t *Tracker) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (t *Tracker) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.opts.Interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s, err := t.sensor.Sample(ctx)
		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			t.fail(err)
			continue
		}
		t.update(s, dt)
	}
}

func (t *Tracker) fail(err error) {
	t.mu.Lock()
	t.failures++
	first := t.failures == 1
	t.mu.Unlock()
	if first {
		logger.Log.Warn("sensor read failed", zap.Error(err))
	} else {
		logger.Log.Debug("sensor read failed", zap.Error(err))
	}
}

// update advances the filter by one reading taken dt seconds after the
// previous one.
func (t *Tracker) update(s Sample, dt float32) {
	delta := rotation(s.Gyro, dt)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.samples++
	t.accumulated = t.accumulated.Add(s.Gyro.Mul(dt))
	t.gyro = t.gyro.Mul(delta).Normalize()
	t.fused = t.fused.Mul(delta).Normalize()

	if !t.observeGravity(s.Accel) {
		return
	}
	g := t.gravity.Normalize()
	t.accel = mgl32.QuatBetweenVectors(g, up)

	// Pull the fused tilt towards the measured one. The correction axis is
	// horizontal, so heading is left to the gyro.
	measured := t.fused.Rotate(g)
	correction := mgl32.QuatBetweenVectors(measured, up)
	partial := mgl32.QuatSlerp(mgl32.QuatIdent(), correction, t.opts.AccelWeight)
	t.fused = partial.Mul(t.fused).Normalize()
}

// observeGravity folds a into the smoothed gravity vector and reports
// whether the vector is usable.
func (t *Tracker) observeGravity(a mgl32.Vec3) bool {
	n := length(a)
	if math32.Abs(n-1) > t.opts.GravityTolerance {
		return t.haveGravity
	}
	if !t.haveGravity {
		t.gravity = a
		t.haveGravity = true
		return true
	}
	t.gravity = t.gravity.Add(a.Sub(t.gravity).Mul(t.opts.GravitySmoothing))
	return length(t.gravity) > 0
}

// rotation turns an angular rate held for dt seconds into a quaternion.
func rotation(rate mgl32.Vec3, dt float32) mgl32.Quat {
	speed := length(rate)
	if speed == 0 || dt <= 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(speed*dt, rate.Mul(1/speed))
}

func length(v mgl32.Vec3) float32 {
	return math32.Sqrt(v.Dot(v))
}

// Orientation returns the fused estimate.
func (t *Tracker) Orientation() mgl32.Quat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fused
}

// GyroOrientation returns the orientation from gyro integration alone.
func (t *Tracker) GyroOrientation() mgl32.Quat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gyro
}

// AccelOrientation returns the tilt implied by smoothed gravity. Heading
// is unobservable and always zero.
func (t *Tracker) AccelOrientation() mgl32.Quat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accel
}

// Accumulated returns the integrated rotation angles per axis in radians.
func (t *Tracker) Accumulated() mgl32.Vec3 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accumulated
}

// Samples returns how many readings have been applied.
func (t *Tracker) Samples() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.samples
}

// Failures returns how many sensor reads failed.
func (t *Tracker) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failures
}

// Reset sets the gyro and fused orientations to q and clears the
// accumulated angles.
func (t *Tracker) Reset(q mgl32.Quat) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gyro = q
	t.fused = q
	t.accumulated = mgl32.Vec3{}
}
