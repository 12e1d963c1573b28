package resource

import (
	"net/url"
	"strings"

	"github.com/vikasavnish/carecoord/internal/entity"
)

// Routes holds the path templates of one kind, relative to the base URL.
// {owner} and {id} are substituted with path-escaped values. An empty
// template means the operation is not offered.
type Routes struct {
	List   string
	Create string
	Update string
	Delete string
}

// DefaultRoutes returns the routes the bundled server registers for kind.
func DefaultRoutes(kind entity.Kind) Routes {
	switch kind {
	case entity.KindFamily:
		return Routes{
			List:   "/family/{owner}/all",
			Create: "/family/add/{owner}",
			Update: "/family/update/{id}/{owner}",
			Delete: "/family/delete/{id}/{owner}",
		}
	case entity.KindPet:
		return collection("pets")
	case entity.KindElderly:
		return collection("elderly")
	case entity.KindAppointment:
		return collection("appointments")
	case entity.KindPayment:
		return Routes{Create: "/users/{owner}/payment"}
	}
	return Routes{}
}

func collection(name string) Routes {
	base := "/users/{owner}/" + name
	return Routes{
		List:   base,
		Create: base,
		Update: base + "/{id}",
		Delete: base + "/{id}",
	}
}

func expand(tmpl, owner string, id entity.ID) string {
	return strings.NewReplacer(
		"{owner}", url.PathEscape(owner),
		"{id}", url.PathEscape(id.String()),
	).Replace(tmpl)
}
