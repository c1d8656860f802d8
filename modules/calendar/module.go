package calendar

import (
	"today-scheduler/modules/calendar/service"
)

// Init builds the calendar gateway. No routes: the gateway is consumed by the
// event module only.
func Init() *service.GoogleGateway {
	return service.NewGoogleGateway()
}
