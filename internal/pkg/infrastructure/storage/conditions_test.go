package storage

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestConditionDefaults(t *testing.T) {
	is := is.New(t)

	c := newCondition()
	is.Equal("sensor_id", c.SortBy())
	is.Equal("ASC", c.SortOrder())
	is.Equal(0, c.Offset())
	is.Equal(0, c.Limit())
	is.Equal(0, len(c.NamedArgs()))
}

func TestConditionNamedArgs(t *testing.T) {
	is := is.New(t)

	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	c := newCondition(
		WithSensorID("esp32_001"),
		WithSensorType("esp32_fermentation"),
		WithCommandStatus("pending"),
		WithCheckInBefore(ts),
		WithLimit(10),
		WithOffset(20),
	)

	args := c.NamedArgs()
	is.Equal("esp32_001", args["sensor_id"])
	is.Equal("esp32_fermentation", args["sensor_type"])
	is.Equal("pending", args["status"])
	is.Equal(ts, args["check_in_before"])
	is.Equal(10, args["limit"])
	is.Equal(20, args["offset"])
}

func TestSearchConditionStripsWildcards(t *testing.T) {
	is := is.New(t)

	c := newCondition(WithSearch("ferm%enter"))
	is.Equal("%fermenter%", c.NamedArgs()["search"])
}

func TestSortByAllowListsColumns(t *testing.T) {
	is := is.New(t)

	c := newCondition(WithSortBy("last_check_in"), WithSortDesc(true))
	is.Equal("last_check_in", c.SortBy())
	is.Equal("DESC", c.SortOrder())

	// unknown columns fall back to the default sort
	c = newCondition(WithSortBy("modified_on; --"))
	is.Equal("sensor_id", c.SortBy())
}
