package app

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/fd1az/chain-explorer/internal/logger"
)

// Alert subjects.
const (
	SubjectRPCRecovered   = "alert!  ** RECOVERY ** rpc connection restored"
	SubjectRPCOutage      = "alert!  ** OUTAGE ** rpc connection lost."
	SubjectChainShrinking = "alert!  ** WARNING ** blockchain height is shrinking"
	SubjectChainStalled   = "alert!  ** WARNING ** blockchain height is stalled"
	SubjectChainRecovered = "alert!  ** Recovery ** blockchain height is growing again"
)

// Event is a watchdog transition, delivered to observers such as the
// operator console.
type Event struct {
	Watchdog string
	Subject  string
	At       time.Time
	Sent     bool
}

// Observer receives watchdog events. It must not block.
type Observer func(Event)

var connectivityBody = template.Must(template.New("connectivity").Parse(
	`endpoint: {{.Endpoint}}
was_connected: {{.WasConnected}}
now_connected: {{.NowConnected}}
now: {{.Now.Format "2006-01-02T15:04:05Z07:00"}}
app_started: {{.AppStarted.Format "2006-01-02T15:04:05Z07:00"}}
app_duration: {{.AppDuration}}
since: {{.Since.Format "2006-01-02T15:04:05Z07:00"}}
duration: {{.Duration}}
`))

type connectivityReport struct {
	Endpoint     string
	WasConnected bool
	NowConnected bool
	Now          time.Time
	AppStarted   time.Time
	AppDuration  time.Duration
	Since        time.Time
	Duration     time.Duration
}

var livenessBody = template.Must(template.New("liveness").Parse(
	`endpoint: {{.Endpoint}}
last_height: {{.LastHeight}}
height: {{.Height}}
state: {{.State}}
now: {{.Now.Format "2006-01-02T15:04:05Z07:00"}}
app_started: {{.AppStarted.Format "2006-01-02T15:04:05Z07:00"}}
app_duration: {{.AppDuration}}
last_poll: {{.LastPoll.Format "2006-01-02T15:04:05Z07:00"}}
since_last_poll: {{.SinceLastPoll}}
state_since: {{.StateSince.Format "2006-01-02T15:04:05Z07:00"}}
`))

type livenessReport struct {
	Endpoint      string
	LastHeight    uint64
	Height        uint64
	State         string
	Now           time.Time
	AppStarted    time.Time
	AppDuration   time.Duration
	LastPoll      time.Time
	SinceLastPoll time.Duration
	StateSince    time.Time
}

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err.Error()
	}
	return buf.String()
}

// deliver sends an alert and swallows delivery failures.
func deliver(ctx context.Context, sink AlertSink, log logger.LoggerInterface, watchdog, subject, body string) bool {
	sent, err := sink.Send(ctx, subject, body)
	if err != nil {
		log.Error(ctx, "alert delivery failed", "watchdog", watchdog, "subject", subject, "error", err)
		return false
	}
	return sent
}
