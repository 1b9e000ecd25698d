package storage

import (
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	SensorID   string
	SensorType string

	ActiveOnly    bool
	DefaultScope  bool
	TemplateID    *int64
	CommandStatus string
	Search        string

	CheckInBefore time.Time

	sortBy    string
	sortOrder string

	offset *int
	limit  *int
}

func (c Condition) NamedArgs() pgx.NamedArgs {
	args := pgx.NamedArgs{}

	if c.SensorID != "" {
		args["sensor_id"] = c.SensorID
	}
	if c.SensorType != "" {
		args["sensor_type"] = c.SensorType
	}
	if c.TemplateID != nil {
		args["id"] = *c.TemplateID
	}
	if c.CommandStatus != "" {
		args["status"] = c.CommandStatus
	}
	if c.Search != "" {
		args["search"] = "%" + c.Search + "%"
	}
	if !c.CheckInBefore.IsZero() {
		args["check_in_before"] = c.CheckInBefore.UTC()
	}
	if c.offset != nil {
		args["offset"] = *c.offset
	}
	if c.limit != nil {
		args["limit"] = *c.limit
	}

	return args
}

func (c Condition) SortBy() string {
	if c.sortBy == "" {
		return "sensor_id"
	}
	return c.sortBy
}

func (c Condition) SortOrder() string {
	if c.sortOrder == "" {
		return "ASC"
	}
	return c.sortOrder
}

func (c Condition) Offset() int {
	if c.offset == nil {
		return 0
	}
	return *c.offset
}

func (c Condition) Limit() int {
	if c.limit == nil {
		return 0
	}
	return *c.limit
}

var re = regexp.MustCompile(`[^a-zA-Z0-9 _\-.:]+|[%]`)

func WithSearch(s string) ConditionFunc {
	return func(c *Condition) *Condition {
		s = re.ReplaceAllString(s, "")
		c.Search = strings.TrimSpace(s)
		return c
	}
}

func WithSensorID(sensorID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SensorID = sensorID
		return c
	}
}

func WithSensorType(sensorType string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SensorType = sensorType
		return c
	}
}

// WithDefaultScope matches config templates that target neither a sensor nor
// a sensor type.
func WithDefaultScope() ConditionFunc {
	return func(c *Condition) *Condition {
		c.DefaultScope = true
		return c
	}
}

func WithActiveOnly() ConditionFunc {
	return func(c *Condition) *Condition {
		c.ActiveOnly = true
		return c
	}
}

func WithTemplateID(id int64) ConditionFunc {
	return func(c *Condition) *Condition {
		c.TemplateID = &id
		return c
	}
}

func WithCommandStatus(status string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.CommandStatus = status
		return c
	}
}

func WithCheckInBefore(ts time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.CheckInBefore = ts
		return c
	}
}

func WithOffset(offset int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.offset = &offset
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

func WithSortBy(sortBy string) ConditionFunc {
	return func(c *Condition) *Condition {
		switch strings.ToLower(sortBy) {
		case "sensor_id":
			c.sortBy = "sensor_id"
		case "sensor_type":
			c.sortBy = "sensor_type"
		case "name":
			c.sortBy = "sensor_name"
		case "last_check_in":
			c.sortBy = "last_check_in"
		case "priority":
			c.sortBy = "priority"
		case "created_at":
			c.sortBy = "created_at"
		}
		return c
	}
}

func WithSortDesc(desc bool) ConditionFunc {
	return func(c *Condition) *Condition {
		if desc {
			c.sortOrder = "DESC"
		} else {
			c.sortOrder = "ASC"
		}
		return c
	}
}

func newCondition(conditions ...ConditionFunc) *Condition {
	condition := &Condition{}
	for _, f := range conditions {
		f(condition)
	}
	return condition
}
