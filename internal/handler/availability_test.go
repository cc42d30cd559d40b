package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/restaurant-table-reservation/internal/availability"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

type fakeSchedule struct {
    closures  map[string]*model.Closure
    timeslots map[string]*model.Timeslot
}

func (f *fakeSchedule) ClosureOn(_ context.Context, date string) (*model.Closure, error) {
    if cl, ok := f.closures[date]; ok {
        return cl, nil
    }
    return nil, repository.ErrNotFound
}

func (f *fakeSchedule) TimeslotFor(_ context.Context, weekday string) (*model.Timeslot, error) {
    if ts, ok := f.timeslots[weekday]; ok {
        return ts, nil
    }
    return nil, repository.ErrNotFound
}

type fakeSections struct {
    sections map[uint64]*model.Section
}

func (f *fakeSections) GetByID(_ context.Context, id uint64) (*model.Section, error) {
    if s, ok := f.sections[id]; ok {
        return s, nil
    }
    return nil, repository.ErrNotFound
}

func (f *fakeSections) List(_ context.Context) ([]model.Section, error) {
    out := make([]model.Section, 0, len(f.sections))
    for _, s := range f.sections {
        out = append(out, *s)
    }
    return out, nil
}

type fakeTables struct {
    bySection map[uint64][]model.Table
}

func (f *fakeTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
    for _, tables := range f.bySection {
        for i := range tables {
            if tables[i].ID == id {
                return &tables[i], nil
            }
        }
    }
    return nil, repository.ErrNotFound
}

func (f *fakeTables) ListBySection(_ context.Context, sectionID uint64) ([]model.Table, error) {
    return f.bySection[sectionID], nil
}

type fakeReservations struct {
    reserved map[uint64]bool // tableID -> active reservation exists
}

func (f *fakeReservations) HasActiveSlot(_ context.Context, tableID uint64, _ time.Time, _ string) (bool, error) {
    return f.reserved[tableID], nil
}

// newAvailabilityHandler builds a handler over in-memory sources with
// one section holding one free table, open Tuesdays, closed Mondays,
// no entry at all for Wednesdays, and an ad-hoc closure on 2026-09-08.
func newAvailabilityHandler() *AvailabilityHandler {
    sections := &fakeSections{sections: map[uint64]*model.Section{
        1: {ID: 1, Name: "Main Hall"},
    }}
    tables := &fakeTables{bySection: map[uint64][]model.Table{
        1: {{ID: 10, SectionID: 1, Number: 1, Seats: 4}},
    }}
    schedule := &fakeSchedule{
        closures: map[string]*model.Closure{
            "2026-09-08": {ID: 1, Reason: "private event"},
        },
        timeslots: map[string]*model.Timeslot{
            "Tuesday": {ID: 1, Weekday: "Tuesday", OpenHour: 12, CloseHour: 23, IsOpen: true},
            "Monday":  {ID: 2, Weekday: "Monday", OpenHour: 0, CloseHour: 0, IsOpen: false},
        },
    }
    resolver := availability.New(tables, &fakeReservations{}, sections)
    return NewAvailabilityHandler(resolver, schedule, sections)
}

func availabilityRequest(target string) (echo.Context, *httptest.ResponseRecorder) {
    req := httptest.NewRequest(http.MethodGet, target, nil)
    rec := httptest.NewRecorder()
    return echo.New().NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var body map[string]any
    require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
    return body
}

func TestAvailabilityList_OpenDay(t *testing.T) {
    h := newAvailabilityHandler()
    // 2026-09-01 is a Tuesday, which is open.
    c, rec := availabilityRequest("/v1/availability?section_id=1&date=2026-09-01&time_slot=18:00-20:00")

    require.NoError(t, h.List(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, false, body["closed"])
    assert.Len(t, body["tables"], 1)
}

func TestAvailabilityList_ClosedWeekday(t *testing.T) {
    h := newAvailabilityHandler()
    // 2026-09-07 is a Monday, present in the template with is_open false.
    c, rec := availabilityRequest("/v1/availability?section_id=1&date=2026-09-07&time_slot=18:00-20:00")

    require.NoError(t, h.List(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, true, body["closed"])
    assert.Empty(t, body["tables"])
}

func TestAvailabilityList_MissingWeekdayEntry(t *testing.T) {
    h := newAvailabilityHandler()
    // 2026-09-02 is a Wednesday, which has no template entry at all.
    c, rec := availabilityRequest("/v1/availability?section_id=1&date=2026-09-02&time_slot=18:00-20:00")

    require.NoError(t, h.List(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, true, body["closed"])
    assert.Empty(t, body["tables"])
}

func TestAvailabilityList_AdHocClosure(t *testing.T) {
    h := newAvailabilityHandler()
    // 2026-09-08 is a Tuesday, normally open, but carries a closure row.
    c, rec := availabilityRequest("/v1/availability?section_id=1&date=2026-09-08&time_slot=18:00-20:00")

    require.NoError(t, h.List(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, true, body["closed"])
    assert.Equal(t, "private event", body["reason"])
    assert.Empty(t, body["tables"])
}

func TestAvailabilityList_UnknownSection(t *testing.T) {
    h := newAvailabilityHandler()
    c, rec := availabilityRequest("/v1/availability?section_id=99&date=2026-09-01&time_slot=18:00-20:00")

    require.NoError(t, h.List(c))
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAvailabilityCheck_ClosedDay(t *testing.T) {
    h := newAvailabilityHandler()
    c, rec := availabilityRequest("/v1/availability/check?date=2026-09-07&time_slot=18:00-20:00")

    require.NoError(t, h.Check(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, true, body["closed"])
    assert.Equal(t, true, body["all_sections_full"])
}

func TestAvailabilityCheck_OpenDayWithFreeTable(t *testing.T) {
    h := newAvailabilityHandler()
    c, rec := availabilityRequest("/v1/availability/check?date=2026-09-01&time_slot=18:00-20:00")

    require.NoError(t, h.Check(c))
    assert.Equal(t, http.StatusOK, rec.Code)

    body := decodeBody(t, rec)
    assert.Equal(t, false, body["closed"])
    assert.Equal(t, false, body["all_sections_full"])
}
