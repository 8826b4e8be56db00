package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMapCarrierStatus(t *testing.T) {
	cases := []struct {
		code   string
		status ShipmentStatus
		known  bool
	}{
		{"pending", ShipmentStatusCreated, true},
		{"paid", ShipmentStatusPaid, true},
		{"generated", ShipmentStatusLabelGenerated, true},
		{"released", ShipmentStatusLabelGenerated, true},
		{"posted", ShipmentStatusPosted, true},
		{"delivered", ShipmentStatusDelivered, true},
		{"canceled", ShipmentStatusCanceled, true},
		{"cancelled", ShipmentStatusCanceled, true},
		{"em_rota", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := MapCarrierStatus(tc.code)
		require.Equal(t, tc.known, ok, "código %q", tc.code)
		require.Equal(t, tc.status, got, "código %q", tc.code)
	}
}

func TestShipmentAppendEvent(t *testing.T) {
	t1 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t1.Add(48 * time.Hour)

	t.Run("histórico fica ordenado por event_time", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "delivered", EventTime: t3})
		s.AppendEvent(TrackingEvent{Status: "pending", EventTime: t1})
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t2})

		require.Len(t, s.History, 3)
		require.Equal(t, "pending", s.History[0].Status)
		require.Equal(t, "posted", s.History[1].Status)
		require.Equal(t, "delivered", s.History[2].Status)
	})

	t.Run("empate de event_time preserva a ordem de chegada", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1, Source: EventSourcePoll})
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1, Source: EventSourceWebhook})

		require.Equal(t, EventSourcePoll, s.History[0].Source)
		require.Equal(t, EventSourceWebhook, s.History[1].Source)
	})
}

func TestShipmentHasEvent(t *testing.T) {
	t1 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	s := &Shipment{}
	s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1})

	require.True(t, s.HasEvent(t1, "posted"))
	require.False(t, s.HasEvent(t1, "delivered"), "mesmo instante, status diferente")
	require.False(t, s.HasEvent(t1.Add(time.Second), "posted"), "mesmo status, instante diferente")
}

func TestShipmentDeriveStatus(t *testing.T) {
	t1 := time.Date(2026, 8, 10, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	t.Run("vale o evento mapeável mais recente", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1, Source: EventSourcePoll})
		s.AppendEvent(TrackingEvent{Status: "delivered", EventTime: t2, Source: EventSourcePoll})

		status, at, ok := s.DeriveStatus()
		require.True(t, ok)
		require.Equal(t, ShipmentStatusDelivered, status)
		require.True(t, at.Equal(t2))
	})

	t.Run("empate exato: webhook ganha do poll", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1, Source: EventSourcePoll})
		s.AppendEvent(TrackingEvent{Status: "canceled", EventTime: t1, Source: EventSourceWebhook})

		status, _, ok := s.DeriveStatus()
		require.True(t, ok)
		require.Equal(t, ShipmentStatusCanceled, status)
	})

	t.Run("código desconhecido mais recente não participa", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "posted", EventTime: t1, Source: EventSourcePoll})
		s.AppendEvent(TrackingEvent{Status: "saiu_para_entrega", EventTime: t2, Source: EventSourcePoll})

		status, at, ok := s.DeriveStatus()
		require.True(t, ok)
		require.Equal(t, ShipmentStatusPosted, status)
		require.True(t, at.Equal(t1))
	})

	t.Run("histórico sem evento mapeável", func(t *testing.T) {
		s := &Shipment{}
		s.AppendEvent(TrackingEvent{Status: "xyz", EventTime: t1})

		_, _, ok := s.DeriveStatus()
		require.False(t, ok)
	})
}

func TestShipmentIsTerminal(t *testing.T) {
	require.True(t, (&Shipment{Status: ShipmentStatusDelivered}).IsTerminal())
	require.True(t, (&Shipment{Status: ShipmentStatusCanceled}).IsTerminal())
	require.False(t, (&Shipment{Status: ShipmentStatusPosted}).IsTerminal())
	require.False(t, (&Shipment{Status: ShipmentStatusCreated}).IsTerminal())
}
