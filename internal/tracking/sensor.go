package tracking

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"
)

// ConstantRate is a sensor that spins at a fixed rate while gravity
// points straight up. It stands in for real hardware.
type ConstantRate struct {
	Rate mgl32.Vec3
}

func (c ConstantRate) Sample(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}
	return Sample{Gyro: c.Rate, Accel: up}, nil
}

// SensorFunc adapts a function to the Sensor interface.
type SensorFunc func(ctx context.Context) (Sample, error)

func (f SensorFunc) Sample(ctx context.Context) (Sample, error) { return f(ctx) }
