// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package calendar implements the shared calendar: events in the
LIVE-CALENDAR container, the all/upcoming views, recurrence expansion and
iCalendar export.

Events are immutable once created. Any participant may delete any event.
Creating an event with an end before its start fails with ErrInvalidRange.

Recurrence is an optional RFC 5545 RRULE ("FREQ=WEEKLY;COUNT=4") expanded
on read by Occurrences with rrule-go. ExportICS and ImportICS use
golang-ical.
*/
package calendar
