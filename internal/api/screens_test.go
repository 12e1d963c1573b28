package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/carecoord/internal/entity"
	"github.com/vikasavnish/carecoord/internal/notify"
	"github.com/vikasavnish/carecoord/internal/resource"
	"github.com/vikasavnish/carecoord/internal/screen"
)

// openScreens logs a fresh user in over HTTP and opens every screen
func openScreens(t *testing.T) (map[entity.Kind]*screen.Screen, *notify.Emitter) {
	t.Helper()
	srv := newServer(t)
	login(t, srv, "carer@example.com", "secret1", true)

	session, err := resource.Login(context.Background(), srv.Client(), srv.URL+"/api", "carer@example.com", "secret1")
	require.NoError(t, err)
	notes := notify.NewEmitter()
	t.Cleanup(notes.Close)

	return screen.Open(screen.Remote{BaseURL: srv.URL + "/api", Session: session, HTTP: srv.Client()}, notes, screen.Options{}), notes
}

func message(t *testing.T, notes *notify.Emitter) string {
	t.Helper()
	n, ok := notes.Current()
	require.True(t, ok)
	return n.Message
}

func TestFamilyScreenAgainstServer(t *testing.T) {
	screens, notes := openScreens(t)
	family := screens[entity.KindFamily]
	ctx := context.Background()

	require.NoError(t, family.Load(ctx))
	assert.Empty(t, family.Items())

	require.NoError(t, family.BeginAdd())
	require.NoError(t, family.Set("name", "Jane Doe"))
	require.NoError(t, family.Set("age", "30"))
	require.NoError(t, family.Set("relationship", "Spouse"))
	require.NoError(t, family.Submit(ctx))
	assert.Equal(t, "Family member added successfully!", message(t, notes))

	items := family.Items()
	require.Len(t, items, 1)
	jane := items[0]
	assert.Equal(t, "Jane Doe", jane.Name())

	require.NoError(t, family.Edit(jane.ID))
	require.NoError(t, family.Set("age", 31))
	require.NoError(t, family.Submit(ctx))
	age, ok := entity.AsInt(family.Items()[0].Fields["age"])
	require.True(t, ok)
	assert.Equal(t, 31, age)

	require.NoError(t, family.RequestDelete(jane.ID))
	require.NoError(t, family.ConfirmDelete(ctx))
	assert.Empty(t, family.Items())
}

func TestElderlyScreenAgainstServer(t *testing.T) {
	screens, _ := openScreens(t)
	elderly := screens[entity.KindElderly]
	ctx := context.Background()

	require.NoError(t, elderly.BeginAdd())
	for field, v := range map[string]any{
		"name":                          "Mary Johnson",
		"age":                           82,
		"medicalConditions":             []string{"Diabetes"},
		"emergencyContact.name":         "Tom",
		"emergencyContact.relationship": "Adult Child",
		"emergencyContact.phone":        "(555) 123-4567",
	} {
		require.NoError(t, elderly.Set(field, v))
	}
	require.NoError(t, elderly.Submit(ctx))

	items := elderly.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Tom", items[0].Fields.String("emergencyContact.name"))
	assert.Equal(t, []string{"Diabetes"}, entity.AsStrings(items[0].Fields["medicalConditions"]))
}

func TestAppointmentAndPaymentScreensAgainstServer(t *testing.T) {
	screens, notes := openScreens(t)
	ctx := context.Background()

	appointments := screens[entity.KindAppointment]
	require.NoError(t, appointments.BeginAdd())
	require.NoError(t, appointments.Set("appointmentType", "Pet"))
	require.NoError(t, appointments.Set("selectedPerson", "1"))
	require.NoError(t, appointments.Set("date", time.Now().AddDate(0, 0, 7).Format("2006-01-02")))
	require.NoError(t, appointments.Set("time", "10:30"))
	require.NoError(t, appointments.Set("serviceType", "Grooming"))
	require.NoError(t, appointments.Submit(ctx))
	require.Len(t, appointments.Items(), 1)

	require.NoError(t, appointments.Delete(ctx, appointments.Items()[0].ID))
	assert.Equal(t, "Appointment cancelled successfully!", message(t, notes))
	assert.Empty(t, appointments.Items())

	payment := screens[entity.KindPayment]
	require.NoError(t, payment.Set("service", "Pet Management"))
	require.NoError(t, payment.Set("cardNumber", "4111111111111111"))
	require.NoError(t, payment.Set("expiryDate", "1299"))
	require.NoError(t, payment.Set("cvv", "123"))
	require.NoError(t, payment.Set("nameOnCard", "Jane Doe"))
	require.NoError(t, payment.Submit(ctx))
	assert.Equal(t, "Payment processed successfully!", message(t, notes))
}

func TestServerRejectionReachesScreen(t *testing.T) {
	screens, notes := openScreens(t)
	pets := screens[entity.KindPet]
	ctx := context.Background()
	require.NoError(t, pets.Load(ctx))

	// A record the server no longer has
	err := pets.Delete(ctx, "999")
	assert.ErrorIs(t, err, entity.ErrIdentity)
	assert.Equal(t, "Cannot delete pet: Invalid pet ID", message(t, notes))
}
