package restapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/rshade/healthtrack/internal/dataset"
	"github.com/rshade/healthtrack/internal/loader"
	"github.com/rshade/healthtrack/internal/restcountries"
)

// StatusData describes the session dataset.
type StatusData struct {
	Status    loader.Status `json:"status"`
	Source    loader.Source `json:"source"`
	Rows      int           `json:"rows"`
	Countries int           `json:"countries"`
	YearMin   *int          `json:"yearMin,omitempty"`
	YearMax   *int          `json:"yearMax,omitempty"`
	LoadedAt  time.Time     `json:"loadedAt"`
	Error     string        `json:"error,omitempty"`
}

// CountriesData lists the selectable countries.
type CountriesData struct {
	Status loader.Status `json:"status"`
	List   []string      `json:"list"`
}

// PeakData is the maximum value of a series and where it occurs.
type PeakData struct {
	Max   float64 `json:"max"`
	Years []int   `json:"years"`
}

// SeriesData is the time series for one country.
type SeriesData struct {
	Country string                `json:"country"`
	Status  loader.Status         `json:"status"`
	Rows    []dataset.Observation `json:"rows"`
	Peak    *PeakData             `json:"peak,omitempty"`
}

// InfoData wraps the country metadata.
type InfoData struct {
	Country string                     `json:"country"`
	Entry   *restcountries.CountryInfo `json:"entry"`
}

func newStatusData(res loader.Result) StatusData {
	data := StatusData{
		Status:    res.Status,
		Source:    res.Source,
		Rows:      res.Dataset.Len(),
		Countries: len(res.Dataset.Countries()),
		LoadedAt:  res.LoadedAt,
	}
	if lo, hi, ok := res.Dataset.YearRange(); ok {
		data.YearMin, data.YearMax = &lo, &hi
	}
	if res.Err != nil {
		data.Error = res.Err.Error()
	}
	return data
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.sendResponse(w, r, newOKResponse(newStatusData(s.source.Get(r.Context()))))
}

func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	s.sendResponse(w, r, newOKResponse(newStatusData(s.source.Refresh(r.Context()))))
}

func (s *Server) countriesHandler(w http.ResponseWriter, r *http.Request) {
	res := s.source.Get(r.Context())
	s.sendResponse(w, r, newOKResponse(CountriesData{
		Status: res.Status,
		List:   res.Dataset.Countries(),
	}))
}

func (s *Server) seriesHandler(w http.ResponseWriter, r *http.Request) {
	name := countryParam(r)
	res := s.source.Get(r.Context())

	country, ok := res.Dataset.LookupCountry(name)
	if !ok {
		s.errorResponse(w, r, http.StatusNotFound, "unknown country")
		return
	}

	series := res.Dataset.ForCountry(country)
	data := SeriesData{Country: country, Status: res.Status, Rows: series.Rows()}
	if in, found := dataset.Peak(series); found {
		data.Peak = &PeakData{Max: in.Max, Years: in.Years}
	}
	s.sendResponse(w, r, newOKResponse(data))
}

func (s *Server) infoHandler(w http.ResponseWriter, r *http.Request) {
	name := countryParam(r)
	// Names present in the dataset are resolved by their canonical label.
	if label, ok := s.source.Get(r.Context()).Dataset.LookupCountry(name); ok {
		name = label
	}
	if s.resolver == nil {
		s.errorResponse(w, r, http.StatusNotFound, "country info not found")
		return
	}
	info, ok := s.resolver.Resolve(r.Context(), name)
	if !ok {
		s.errorResponse(w, r, http.StatusNotFound, "country info not found")
		return
	}
	s.sendResponse(w, r, newOKResponse(InfoData{Country: name, Entry: info}))
}

// countryParam extracts :name, tolerating a trailing ".json".
func countryParam(r *http.Request) string {
	params := httprouter.ParamsFromContext(r.Context())
	return strings.TrimSuffix(params.ByName("name"), ".json")
}
