package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tyrowin/roomcast/internal/periodic"
	"github.com/Tyrowin/roomcast/internal/room"
)

// Injector posts a message into a room without being a member of it.
type Injector interface {
	InjectMessage(roomID, content, senderID string, kind room.Kind) (int, error)
}

// Robot periodically reports one city's weather into a room.
type Robot struct {
	city     string
	roomID   string
	source   Source
	injector Injector
	log      *slog.Logger
	task     *periodic.Task
}

// NewRobot creates a stopped Robot for city.
func NewRobot(city, roomID string, interval time.Duration, source Source, injector Injector, log *slog.Logger) *Robot {
	if log == nil {
		log = slog.Default()
	}
	r := &Robot{city: city, roomID: roomID, source: source, injector: injector, log: log}
	r.task = periodic.New("robot_"+city, interval, func(ctx context.Context) {
		if _, err := r.Report(ctx); err != nil && !errors.Is(err, room.ErrRoomNotFound) {
			r.log.Error("Robot report failed", "city", r.city, "err", err)
		}
	}, log)
	return r
}

// Name returns the sender id the robot posts as.
func (r *Robot) Name() string { return "robot_" + r.city }

// City returns the city key.
func (r *Robot) City() string { return r.city }

// Start begins reporting.
func (r *Robot) Start() { r.task.Start() }

// Stop halts reporting.
func (r *Robot) Stop() { r.task.Stop() }

// Running reports whether the robot is started.
func (r *Robot) Running() bool { return r.task.State() == periodic.Running }

// Report fetches a reading and posts it. It returns room.ErrRoomNotFound
// while nobody observes the room.
func (r *Robot) Report(ctx context.Context) (Reading, error) {
	reading, err := r.source.GetCurrentReading(ctx, r.city)
	if err != nil {
		return Reading{}, fmt.Errorf("read %s: %w", r.city, err)
	}
	n, err := r.injector.InjectMessage(r.roomID, Format(reading), r.Name(), room.KindSystem)
	if err != nil {
		return reading, err
	}
	r.log.Info("Robot sent data", "city", r.city, "temperature", reading.Temperature, "recipients", n)
	return reading, nil
}

// Format renders a reading the way robots post it.
func Format(rd Reading) string {
	return fmt.Sprintf("%s Robot %s: %d°C, %s - %s (%s)",
		rd.Emoji, rd.Name, rd.Temperature, rd.Description, rd.Timestamp.In(Colombia).Format(time.TimeOnly), rd.Source)
}

// Fleet runs a set of robots together.
type Fleet []*Robot

// Start starts every robot.
func (f Fleet) Start() {
	for _, r := range f {
		r.Start()
	}
}

// Stop stops every robot.
func (f Fleet) Stop() {
	for _, r := range f {
		r.Stop()
	}
}

// Running lists the cities whose robot is started.
func (f Fleet) Running() []string {
	var cities []string
	for _, r := range f {
		if r.Running() {
			cities = append(cities, r.city)
		}
	}
	return cities
}
