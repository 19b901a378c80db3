package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "botornot_active_rooms",
		Help: "Current number of live rooms",
	})
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "botornot_ws_connections",
		Help: "Current number of active websocket connections",
	})
	BotMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "botornot_bot_messages_total",
		Help: "Total number of chat messages generated by bots",
	})
	VotesRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "botornot_votes_recorded_total",
		Help: "Total number of votes recorded in the ledger",
	})
	ReasoningFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "botornot_reasoning_failures_total",
		Help: "Total number of failed reasoning-service calls",
	}, []string{"call"})
)

func init() {
	prometheus.MustRegister(
		ActiveRooms,
		WsConnections,
		BotMessagesTotal,
		VotesRecordedTotal,
		ReasoningFailuresTotal,
	)
}
