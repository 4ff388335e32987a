package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNotifierDeliversInSubscriptionOrder(t *testing.T) {
	notifier := NewNotifier()

	var order []string
	notifier.Subscribe(func(Event, Principal) { order = append(order, "first") })
	notifier.Subscribe(func(Event, Principal) { order = append(order, "second") })

	notifier.Notify(EventSignedIn, Principal{UserID: uuid.New()})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestNotifierUnsubscribe(t *testing.T) {
	notifier := NewNotifier()

	calls := 0
	unsubscribe := notifier.Subscribe(func(Event, Principal) { calls++ })

	notifier.Notify(EventSignedIn, Principal{})
	unsubscribe()
	notifier.Notify(EventSignedOut, Principal{})

	assert.Equal(t, 1, calls)
}

func TestNotifierPassesEventAndPrincipal(t *testing.T) {
	notifier := NewNotifier()
	userID := uuid.New()

	var gotEvent Event
	var gotPrincipal Principal
	notifier.Subscribe(func(event Event, principal Principal) {
		gotEvent = event
		gotPrincipal = principal
	})

	notifier.Notify(EventTokenRefreshed, Principal{UserID: userID})
	assert.Equal(t, EventTokenRefreshed, gotEvent)
	assert.Equal(t, userID, gotPrincipal.UserID)
}
