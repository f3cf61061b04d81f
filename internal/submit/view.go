package submit

import "github.com/roadscout/report-service/internal/domain"

// View is a point-in-time snapshot of the draft, shaped for the capture UI:
// one phase for location/submission plus a status per optional lookup.
type View struct {
	Phase         Phase              `json:"phase"`
	Location      *domain.Coordinate `json:"location,omitempty"`
	LocationError string             `json:"locationError,omitempty"`

	AddressStatus LookupStatus `json:"addressStatus"`
	Address       string       `json:"address,omitempty"`
	Area          string       `json:"area,omitempty"`
	AddressError  string       `json:"addressError,omitempty"`

	WeatherStatus LookupStatus    `json:"weatherStatus"`
	Weather       *domain.Weather `json:"weather,omitempty"`
	WeatherError  string          `json:"weatherError,omitempty"`

	HasPhoto    bool   `json:"hasPhoto"`
	SubmitError string `json:"submitError,omitempty"`
}

// View returns the current draft state.
func (o *Orchestrator) View() View {
	o.mu.Lock()
	defer o.mu.Unlock()

	v := View{
		Phase:         o.phase,
		AddressStatus: o.address.status,
		WeatherStatus: o.weather.status,
		HasPhoto:      o.photo != "",
	}
	if o.phase == PhaseLocationReady || o.phase == PhaseSubmitting || o.phase == PhaseSubmitFailed {
		loc := o.location
		v.Location = &loc
	}
	if o.locationErr != nil {
		v.LocationError = o.locationErr.Error()
	}
	if o.address.status == LookupReady {
		v.Address = o.address.value.Address
		v.Area = o.address.value.Area
	}
	if o.address.err != nil {
		v.AddressError = o.address.err.Error()
	}
	if o.weather.status == LookupReady {
		w := o.weather.value
		v.Weather = &w
	}
	if o.weather.err != nil {
		v.WeatherError = o.weather.err.Error()
	}
	if o.submitErr != nil {
		v.SubmitError = o.submitErr.Error()
	}
	return v
}
