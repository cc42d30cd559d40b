package handler

import (
    "errors"
    "log"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-table-reservation/internal/broadcast"
    "github.com/iliyamo/restaurant-table-reservation/internal/model"
    "github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// TableHandler lets staff flip the live walk-in override on a table.
// Both operations are idempotent: re-occupying an occupied table just
// refreshes its expiry, freeing a free table changes nothing.
type TableHandler struct {
    Tables    *repository.TableRepo
    Publisher broadcast.Publisher
}

// NewTableHandler constructs a TableHandler.
func NewTableHandler(tables *repository.TableRepo, publisher broadcast.Publisher) *TableHandler {
    if tables == nil {
        panic("nil table repository passed to NewTableHandler")
    }
    return &TableHandler{Tables: tables, Publisher: publisher}
}

// Occupy handles PUT /v1/tables/:id/occupy. It marks the table as
// walk-in occupied until the end of the current day. Overrides expire
// lazily: nothing ever sweeps them, readers ignore stale ones.
func (h *TableHandler) Occupy(c echo.Context) error {
    tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || tableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }

    now := time.Now()
    until := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

    ctx := c.Request().Context()
    if err := h.Tables.SetOverride(ctx, tableID, until); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
    }

    h.publishStatus(c, tableID, model.OverrideOccupied)
    return c.JSON(http.StatusOK, echo.Map{
        "table_id":       tableID,
        "override":       model.OverrideOccupied,
        "occupied_until": until,
    })
}

// Free handles PUT /v1/tables/:id/free. It clears the walk-in override.
func (h *TableHandler) Free(c echo.Context) error {
    tableID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || tableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
    }

    ctx := c.Request().Context()
    if err := h.Tables.ClearOverride(ctx, tableID); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update table"})
    }

    h.publishStatus(c, tableID, model.OverrideNone)
    return c.JSON(http.StatusOK, echo.Map{
        "table_id": tableID,
        "override": model.OverrideNone,
    })
}

func (h *TableHandler) publishStatus(c echo.Context, tableID uint64, override string) {
    if h.Publisher == nil {
        return
    }
    err := h.Publisher.Publish(c.Request().Context(), broadcast.EventUpdateTableStatus, map[string]any{
        "table_id": tableID,
        "override": override,
    })
    if err != nil {
        log.Printf("table: broadcast status for table %d: %v", tableID, err)
    }
}
