package mapper

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vikasavnish/carecoord/internal/entity"
)

func TestMapFiltersRecordsWithoutID(t *testing.T) {
	m := New(entity.Family())

	res := m.Map("u1", []byte(`{"data":[{"id":1,"name":"Bob"},{"name":"NoId"}]}`))

	assert.Equal(t, "wrapped:data", res.Shape)
	require.Len(t, res.Entities, 1)
	assert.Equal(t, entity.ID("1"), res.Entities[0].ID)
	assert.Equal(t, "Bob", res.Entities[0].Name())
	assert.Equal(t, "u1", res.Entities[0].OwnerID)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 1, res.Filtered())
	assert.Equal(t, []string{"Missing member ID"}, res.Rejected[0].Issues)
	assert.Equal(t, "1 member has incomplete data and is not displayed", res.Notice(m.Schema()))
}

func TestMapFiltersZeroID(t *testing.T) {
	m := New(entity.Family())

	res := m.Map("u1", []byte(`[{"id":0,"name":"Zed","relationship":"Sibling"},{"id":"0","name":"Zoe","relationship":"Sibling"}]`))

	assert.Empty(t, res.Entities)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, []string{"Missing member ID"}, res.Rejected[0].Issues)
	assert.Equal(t, []string{"Missing member ID"}, res.Rejected[1].Issues)
}

func TestMapIsIdempotent(t *testing.T) {
	m := New(entity.Pet())
	raw := []byte(`{"pets":[
		{"petId":"p-1","petName":"Rex","species":"Dog","breed":"Beagle","age":"4"},
		{"id":2,"name":"Tom","type":"Cat","breed":"Persian","age":-1}
	]}`)

	first := m.Map("u1", raw)
	second := m.Map("u1", raw)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("mapping the same payload twice differs (-first +second):\n%s", diff)
	}
	require.Len(t, first.Entities, 1)
	assert.Equal(t, entity.Fields{"name": "Rex", "type": "Dog", "breed": "Beagle", "age": 4}, first.Entities[0].Fields)
	assert.Equal(t, []string{"Invalid age"}, first.Rejected[0].Issues)
}

func TestMapShapes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		shape    string
		entities int
		unknown  bool
	}{
		{"bare array", `[{"id":1,"name":"A"},{"id":2,"name":"B"}]`, "array", 2, false},
		{"members wrapper", `{"members":[{"id":1,"name":"A"}]}`, "wrapped:members", 1, false},
		{"family wrapper", `{"familyMembers":[{"memberId":"m1","fullName":"A"}]}`, "wrapped:familyMembers", 1, false},
		{"items wrapper", `{"items":[]}`, "wrapped:items", 0, false},
		{"singleton", `{"id":9,"name":"Solo","relationship":"Parent"}`, "singleton", 1, false},
		{"error object", `{"message":"Internal error"}`, "", 0, true},
		{"scalar", `42`, "", 0, true},
		{"invalid json", `{"members":`, "", 0, true},
	}
	m := New(entity.Family())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := m.Map("", []byte(tt.raw))
			assert.Equal(t, tt.shape, res.Shape)
			assert.Equal(t, tt.unknown, res.Unrecognized)
			assert.Len(t, res.Entities, tt.entities)
			assert.NotNil(t, res.Entities)
		})
	}
}

func TestMapWrapperOrderFollowsSchema(t *testing.T) {
	res := New(entity.Family()).Map("", []byte(`{"data":[{"id":1,"name":"Late"}],"members":[{"id":2,"name":"Early"}]}`))

	require.Len(t, res.Entities, 1)
	assert.Equal(t, "Early", res.Entities[0].Name())
}

func TestMapRepairs(t *testing.T) {
	m := New(entity.Family())

	res := m.Map("u1", []byte(`[
		{"id":1,"firstName":"Jane","lastName":"Doe","type":"Spouse","age":40},
		{"id":2,"first_name":"Sam"},
		{"id":3,"name":"Kim","relationship":"Child","age":7}
	]`))

	require.Len(t, res.Entities, 3)
	assert.Equal(t, 2, res.Repaired)
	assert.Equal(t, "Jane Doe", res.Entities[0].Name())
	assert.Equal(t, "Spouse", res.Entities[0].Fields.String("relationship"))
	assert.Equal(t, "Sam", res.Entities[1].Name())
	age, ok := res.Entities[1].Fields.Int("age")
	assert.True(t, ok)
	assert.Equal(t, 0, age)
}

func TestMapOwnerScope(t *testing.T) {
	m := New(entity.Pet())
	raw := []byte(`[
		{"id":1,"name":"Rex","type":"Dog","breed":"Beagle","age":3,"userId":"u1"},
		{"id":2,"name":"Tom","type":"Cat","breed":"Persian","age":5,"userId":"u2"},
		{"id":3,"name":"Fin","type":"Fish","breed":"Unknown","age":1}
	]`)

	res := m.Map("u1", raw)
	assert.Len(t, res.Entities, 2)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, []string{"Owner mismatch"}, res.Rejected[0].Issues)
	assert.Equal(t, "1 pet has incomplete data and is not displayed", res.Notice(m.Schema()))

	unscoped := m.Map("", raw)
	require.Len(t, unscoped.Entities, 3)
	assert.Equal(t, "u2", unscoped.Entities[1].OwnerID)
}

func TestMapNeverReturnsUnidentifiedEntities(t *testing.T) {
	m := New(entity.Family())
	res := m.Map("", []byte(`[
		{"id":"undefined","name":"A"},
		{"id":null,"name":"B"},
		{"id":1.5,"name":"C"},
		{"id":"","familyMemberId":7,"name":"D"},
		"garbage"
	]`))

	require.Len(t, res.Entities, 1)
	assert.Equal(t, entity.ID("7"), res.Entities[0].ID)
	for _, e := range res.Entities {
		assert.True(t, e.ID.Valid())
	}
	assert.Equal(t, "4 members have incomplete data and are not displayed", res.Notice(m.Schema()))
	assert.Equal(t, []string{"Malformed record"}, res.Rejected[3].Issues)
}

func TestMapElderlyNestedContact(t *testing.T) {
	res := New(entity.Elderly()).Map("", []byte(`{"elderly":[{
		"id":5,
		"name":"Robert",
		"age":81,
		"conditions":["Diabetes","COPD"],
		"emergency_contact":{"name":"Anna","relationship":"Adult Child","phone":"5551234567"}
	},{
		"id":6,
		"name":"Missing Contact",
		"age":90
	}]}`))

	require.Len(t, res.Entities, 1)
	e := res.Entities[0]
	assert.Equal(t, []string{"Diabetes", "COPD"}, e.Fields.Strings("medicalConditions"))
	assert.Equal(t, "Anna", e.Fields.String("emergencyContact.name"))
	assert.Equal(t, "5551234567", e.Fields.String("emergencyContact.phone"))
	assert.Contains(t, res.Rejected[0].Issues, "Missing emergencyContact.name")
}
