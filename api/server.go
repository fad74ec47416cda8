package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /rooms)
	GetRooms(w http.ResponseWriter, r *http.Request, params GetRoomsParams)
	// (POST /rooms)
	CreateRoom(w http.ResponseWriter, r *http.Request)
	// (GET /rooms/{roomId})
	GetRoomById(w http.ResponseWriter, r *http.Request, roomId string)
	// (DELETE /rooms/{roomId})
	DeleteRoom(w http.ResponseWriter, r *http.Request, roomId string)
	// (POST /rooms/{roomId}/close)
	CloseRoom(w http.ResponseWriter, r *http.Request, roomId string)
	// (POST /rooms/{roomId}/open)
	OpenRoom(w http.ResponseWriter, r *http.Request, roomId string)
	// (PUT /rooms/{roomId}/screen)
	ChangeRoomScreen(w http.ResponseWriter, r *http.Request, roomId string)
	// (GET /rooms/{roomId}/bookings)
	GetRoomBookings(w http.ResponseWriter, r *http.Request, roomId string)
	// (GET /rooms/{roomId}/free-slots)
	GetRoomFreeSlots(w http.ResponseWriter, r *http.Request, roomId string, params GetRoomFreeSlotsParams)
	// (GET /rooms/{roomId}/availability)
	GetRoomAvailability(w http.ResponseWriter, r *http.Request, roomId string, params GetRoomAvailabilityParams)
	// (POST /rooms/{roomId}/schedule-cleaning)
	ScheduleCleaning(w http.ResponseWriter, r *http.Request, roomId string)
	// (POST /rooms/{roomId}/schedule-maintenance)
	ScheduleMaintenance(w http.ResponseWriter, r *http.Request, roomId string)
	// (DELETE /rooms/{roomId}/cleaning/{bookingUid})
	RemoveCleaning(w http.ResponseWriter, r *http.Request, roomId string, bookingUid string)
	// (DELETE /rooms/{roomId}/maintenance/{bookingUid})
	RemoveMaintenance(w http.ResponseWriter, r *http.Request, roomId string, bookingUid string)
	// (POST /rooms/{roomId}/screenings)
	AddScreening(w http.ResponseWriter, r *http.Request, roomId string)
	// (DELETE /rooms/{roomId}/screenings/{screeningUid})
	RemoveScreening(w http.ResponseWriter, r *http.Request, roomId string, screeningUid string)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts path and query parameters before calling the handlers.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}

	h.ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) bindPath(w http.ResponseWriter, r *http.Request, name string, dest *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

func (siw *ServerInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request, name string, required bool, dest any) bool {
	if required && !r.URL.Query().Has(name) {
		siw.ErrorHandlerFunc(w, r, &RequiredParamError{ParamName: name})
		return false
	}

	err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return false
	}

	return true
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.GetHealth))
}

func (siw *ServerInterfaceWrapper) GetRooms(w http.ResponseWriter, r *http.Request) {
	var params GetRoomsParams

	if !siw.bindQuery(w, r, "page", false, &params.Page) {
		return
	}
	if !siw.bindQuery(w, r, "pageSize", false, &params.PageSize) {
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetRooms(w, r, params)
	}))
}

func (siw *ServerInterfaceWrapper) CreateRoom(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.Handler.CreateRoom))
}

// withRoomId binds the roomId path parameter and hands it to fn.
func (siw *ServerInterfaceWrapper) withRoomId(fn func(w http.ResponseWriter, r *http.Request, roomId string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var roomId string
		if !siw.bindPath(w, r, "roomId", &roomId) {
			return
		}

		siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, roomId)
		}))
	}
}

func (siw *ServerInterfaceWrapper) withRoomAndChildId(
	child string,
	fn func(w http.ResponseWriter, r *http.Request, roomId string, childId string)) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {
		var roomId, childId string
		if !siw.bindPath(w, r, "roomId", &roomId) {
			return
		}
		if !siw.bindPath(w, r, child, &childId) {
			return
		}

		siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, roomId, childId)
		}))
	}
}

func (siw *ServerInterfaceWrapper) GetRoomFreeSlots(w http.ResponseWriter, r *http.Request) {
	siw.withRoomId(func(w http.ResponseWriter, r *http.Request, roomId string) {
		var params GetRoomFreeSlotsParams

		if !siw.bindQuery(w, r, "date", true, &params.Date) {
			return
		}
		if !siw.bindQuery(w, r, "minMinutes", false, &params.MinMinutes) {
			return
		}

		siw.Handler.GetRoomFreeSlots(w, r, roomId, params)
	})(w, r)
}

func (siw *ServerInterfaceWrapper) GetRoomAvailability(w http.ResponseWriter, r *http.Request) {
	siw.withRoomId(func(w http.ResponseWriter, r *http.Request, roomId string) {
		var params GetRoomAvailabilityParams

		if !siw.bindQuery(w, r, "start", true, &params.Start) {
			return
		}
		if !siw.bindQuery(w, r, "end", true, &params.End) {
			return
		}

		siw.Handler.GetRoomAvailability(w, r, roomId, params)
	})(w, r)
}

type RequiredParamError struct {
	ParamName string
}

func (e *RequiredParamError) Error() string {
	return fmt.Sprintf("Query argument %s is required, but not found", e.ParamName)
}

type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// HandlerFromMux creates http.Handler with routing matching the room API and the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{
		BaseRouter: r,
	})
}

type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Get(base+"/health", wrapper.GetHealth)
		r.Get(base+"/rooms", wrapper.GetRooms)
		r.Post(base+"/rooms", wrapper.CreateRoom)
		r.Get(base+"/rooms/{roomId}", wrapper.withRoomId(si.GetRoomById))
		r.Delete(base+"/rooms/{roomId}", wrapper.withRoomId(si.DeleteRoom))
		r.Post(base+"/rooms/{roomId}/close", wrapper.withRoomId(si.CloseRoom))
		r.Post(base+"/rooms/{roomId}/open", wrapper.withRoomId(si.OpenRoom))
		r.Put(base+"/rooms/{roomId}/screen", wrapper.withRoomId(si.ChangeRoomScreen))
		r.Get(base+"/rooms/{roomId}/bookings", wrapper.withRoomId(si.GetRoomBookings))
		r.Get(base+"/rooms/{roomId}/free-slots", wrapper.GetRoomFreeSlots)
		r.Get(base+"/rooms/{roomId}/availability", wrapper.GetRoomAvailability)
		r.Post(base+"/rooms/{roomId}/schedule-cleaning", wrapper.withRoomId(si.ScheduleCleaning))
		r.Post(base+"/rooms/{roomId}/schedule-maintenance", wrapper.withRoomId(si.ScheduleMaintenance))
		r.Delete(base+"/rooms/{roomId}/cleaning/{bookingUid}", wrapper.withRoomAndChildId("bookingUid", si.RemoveCleaning))
		r.Delete(base+"/rooms/{roomId}/maintenance/{bookingUid}", wrapper.withRoomAndChildId("bookingUid", si.RemoveMaintenance))
		r.Post(base+"/rooms/{roomId}/screenings", wrapper.withRoomId(si.AddScreening))
		r.Delete(base+"/rooms/{roomId}/screenings/{screeningUid}", wrapper.withRoomAndChildId("screeningUid", si.RemoveScreening))
	})

	return r
}
