package orders

import (
	"testing"

	"github.com/lucaspaiva/bazario-backend/pkg/enums"
	pkgerrors "github.com/lucaspaiva/bazario-backend/pkg/errors"
)

func TestTransitionTable(t *testing.T) {
	allowed := []struct {
		from, to enums.OrderStatus
	}{
		{enums.OrderStatusPending, enums.OrderStatusConfirmed},
		{enums.OrderStatusPending, enums.OrderStatusCancelled},
		{enums.OrderStatusConfirmed, enums.OrderStatusProcessing},
		{enums.OrderStatusConfirmed, enums.OrderStatusCancelled},
		{enums.OrderStatusProcessing, enums.OrderStatusShipped},
		{enums.OrderStatusProcessing, enums.OrderStatusCancelled},
		{enums.OrderStatusShipped, enums.OrderStatusOutForDelivery},
		{enums.OrderStatusShipped, enums.OrderStatusDelivered},
		{enums.OrderStatusOutForDelivery, enums.OrderStatusDelivered},
		{enums.OrderStatusDelivered, enums.OrderStatusRefundRequested},
		{enums.OrderStatusRefundRequested, enums.OrderStatusRefunded},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	rejected := []struct {
		from, to enums.OrderStatus
	}{
		{enums.OrderStatusPending, enums.OrderStatusShipped},
		{enums.OrderStatusPending, enums.OrderStatusDelivered},
		{enums.OrderStatusShipped, enums.OrderStatusCancelled},
		{enums.OrderStatusDelivered, enums.OrderStatusPending},
		{enums.OrderStatusCancelled, enums.OrderStatusConfirmed},
		{enums.OrderStatusRefunded, enums.OrderStatusRefundRequested},
		{enums.OrderStatusOutForDelivery, enums.OrderStatusShipped},
	}
	for _, tc := range rejected {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be rejected", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []enums.OrderStatus{enums.OrderStatusCancelled, enums.OrderStatusRefunded} {
		if got := AllowedNext(terminal); len(got) != 0 {
			t.Errorf("terminal state %s must have no exits, got %v", terminal, got)
		}
	}
}

func TestValidateTransitionErrorNamesBothStates(t *testing.T) {
	err := validateTransition(enums.OrderStatusPending, enums.OrderStatusShipped)
	if err == nil {
		t.Fatal("expected error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	details, ok := coded.Details().(map[string]any)
	if !ok {
		t.Fatal("expected structured details")
	}
	if details["current"] != enums.OrderStatusPending || details["target"] != enums.OrderStatusShipped {
		t.Fatalf("details must name both states, got %v", details)
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := validateTransition(enums.OrderStatusPending, enums.OrderStatus("bogus"))
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
