package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-radial-chart/internal/chart"
	"github.com/i474232898/weather-radial-chart/internal/service"
	"github.com/i474232898/weather-radial-chart/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc *service.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/charts", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"charts": svc.Charts()})
	})

	v1.Get("/charts/:name/geometry", func(c *fiber.Ctx) error {
		name, err := parseDatasetName(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		geometry, err := svc.Geometry(name)
		if err != nil {
			return lookupError(name, err)
		}
		return c.JSON(geometry)
	})

	v1.Get("/charts/:name/inspect", func(c *fiber.Ctx) error {
		name, err := parseDatasetName(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := parsePointerQuery(c, true)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		res, err := svc.Inspect(name, p.X, p.Y)
		if err != nil {
			return lookupError(name, err)
		}
		return c.JSON(fiber.Map{
			"dataset":    name,
			"visible":    res.Found(),
			"resolution": res,
		})
	})

	v1.Get("/charts/:name/image.png", func(c *fiber.Ctx) error {
		name, err := parseDatasetName(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := parsePointerQuery(c, false)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		img, err := svc.Image(name, p)
		if err != nil {
			return lookupError(name, err)
		}

		etag := `"` + img.ETag + `"`
		c.Set(fiber.HeaderETag, etag)
		c.Set("X-Chart-Generation", img.Generation)
		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), img.ETag) {
			return c.SendStatus(fiber.StatusNotModified)
		}

		c.Set(fiber.HeaderContentType, "image/png")
		return c.Send(img.Data)
	})

	v1.Get("/charts/:name/history", func(c *fiber.Ctx) error {
		name, err := parseDatasetName(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		gens, err := svc.History(name, req.From, req.To)
		if err != nil {
			return lookupError(name, err)
		}
		return c.JSON(fiber.Map{
			"dataset":     name,
			"generations": gens,
		})
	})
}

func lookupError(name string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("no chart loaded for dataset %q", name))
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to build chart")
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == "*" || strings.Trim(candidate, `"`) == etag {
			return true
		}
	}
	return false
}

type datasetParam struct {
	Name string `validate:"required,max=128"`
}

func parseDatasetName(c *fiber.Ctx) (string, error) {
	p := datasetParam{Name: c.Params("name")}
	if err := validate.Struct(p); err != nil {
		return "", err
	}
	return p.Name, nil
}

// pointerQuery holds a chart-local pointer position.
type pointerQuery struct {
	X *float64 `validate:"required"`
	Y *float64 `validate:"required"`
}

// parsePointerQuery reads x and y. When the pointer is optional and both are
// absent it returns nil.
func parsePointerQuery(c *fiber.Ctx, required bool) (*chart.Point, error) {
	xs, ys := c.Query("x"), c.Query("y")
	if !required && xs == "" && ys == "" {
		return nil, nil
	}

	var q pointerQuery
	for _, f := range []struct {
		name string
		raw  string
		dst  **float64
	}{{"x", xs, &q.X}, {"y", ys, &q.Y}} {
		if f.raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s coordinate %q", f.name, f.raw)
		}
		*f.dst = &v
	}

	if err := validate.Struct(q); err != nil {
		return nil, err
	}
	return &chart.Point{X: *q.X, Y: *q.Y}, nil
}

// historyQuery holds the optional load-time window of the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil
	}
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters must be given together")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return validate.Struct(h)
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
