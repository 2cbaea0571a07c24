package availability

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Normalize turns whatever the backend returned for one employee's
// availability into a View. It never fails: input that matches no
// known shape yields the empty View.
//
// The accepted shapes are tried as named strategies in fixed priority
// order; the first strategy that recognizes the input wins.
func Normalize(raw json.RawMessage) View {
	if len(raw) == 0 {
		return View{}
	}

	var value interface{}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return View{}
	}

	strategies := []func(interface{}) (View, bool){
		parseKeyedPerDateMap,
		parseBarePerDateMap,
		parseFlatObject,
		parseRecordArray,
		parseDateArray,
		parseSlotArray,
	}
	for _, strategy := range strategies {
		if view, ok := strategy(value); ok {
			return view
		}
	}
	return View{}
}

// perDateKeys are the field names under which backends have been seen
// to nest the date → slots mapping.
var perDateKeys = []string{"by_date", "byDate", "per_date", "perDate", "schedule", "days"}

// parseKeyedPerDateMap matches an object nesting the per-date mapping
// under a known field name. The mapping takes precedence over any
// flat dates/slots lists beside it.
func parseKeyedPerDateMap(value interface{}) (View, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return View{}, false
	}
	for _, key := range perDateKeys {
		nested, ok := obj[key].(map[string]interface{})
		if !ok {
			continue
		}
		if view, ok := perDateView(nested); ok {
			return view, true
		}
	}
	return View{}, false
}

// parseBarePerDateMap matches an object that is itself the mapping:
// every key a date-like, every value a slot list.
func parseBarePerDateMap(value interface{}) (View, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok || len(obj) == 0 {
		return View{}, false
	}
	for key := range obj {
		if _, ok := dateKey(key); !ok {
			return View{}, false
		}
	}
	return perDateView(obj)
}

// parseFlatObject matches an object carrying independent dates and/or
// slots lists.
func parseFlatObject(value interface{}) (View, bool) {
	obj, ok := value.(map[string]interface{})
	if !ok {
		return View{}, false
	}

	var dates []string
	for _, key := range []string{"dates", "available_dates", "availableDates"} {
		if list, ok := obj[key].([]interface{}); ok {
			dates = dateKeys(list)
			break
		}
	}

	var slots []Slot
	for _, key := range []string{"slots", "times", "time_slots", "timeSlots"} {
		if list, ok := obj[key].([]interface{}); ok {
			slots = slotSet(list)
			break
		}
	}

	if len(dates) == 0 && len(slots) == 0 {
		return View{}, false
	}
	return View{Dates: dates, Slots: slots}, true
}

// parseRecordArray matches an array of {date, slots} records.
func parseRecordArray(value interface{}) (View, bool) {
	list, ok := value.([]interface{})
	if !ok || len(list) == 0 {
		return View{}, false
	}

	byDate := make(map[string][]Slot, len(list))
	for _, item := range list {
		record, ok := item.(map[string]interface{})
		if !ok {
			return View{}, false
		}
		key, ok := recordDate(record)
		if !ok {
			return View{}, false
		}
		if slotList, ok := record["slots"].([]interface{}); ok {
			byDate[key] = append(byDate[key], slotSet(slotList)...)
		} else if byDate[key] == nil {
			byDate[key] = []Slot{}
		}
	}

	view := View{ByDate: byDate, Dates: sortedKeys(byDate)}
	return view, true
}

// parseDateArray matches a bare array of date-like values.
func parseDateArray(value interface{}) (View, bool) {
	list, ok := value.([]interface{})
	if !ok || len(list) == 0 {
		return View{}, false
	}
	dates := make([]string, 0, len(list))
	for _, item := range list {
		key, ok := dateKey(item)
		if !ok {
			return View{}, false
		}
		dates = append(dates, key)
	}
	dates = dedupe(dates)
	sort.Strings(dates)
	return View{Dates: dates}, true
}

// parseSlotArray matches a bare array of slot names.
func parseSlotArray(value interface{}) (View, bool) {
	list, ok := value.([]interface{})
	if !ok || len(list) == 0 {
		return View{}, false
	}
	slots := slotSet(list)
	if len(slots) == 0 {
		return View{}, false
	}
	return View{Slots: slots}, true
}

func perDateView(obj map[string]interface{}) (View, bool) {
	byDate := make(map[string][]Slot, len(obj))
	for rawKey, rawSlots := range obj {
		key, ok := dateKey(rawKey)
		if !ok {
			continue
		}
		slots := []Slot{}
		if list, ok := rawSlots.([]interface{}); ok {
			slots = slotSet(list)
		}
		byDate[key] = slots
	}
	if len(byDate) == 0 {
		return View{}, false
	}
	return View{ByDate: byDate, Dates: sortedKeys(byDate)}, true
}

func recordDate(record map[string]interface{}) (string, bool) {
	for _, field := range []string{"date", "day", "key"} {
		if raw, ok := record[field]; ok {
			return dateKey(raw)
		}
	}
	return "", false
}

// dateKey canonicalizes one date-like value into "YYYY-MM-DD".
// Numbers are unix seconds below 1e12, milliseconds above; both are
// rendered in local time, never shifted through UTC, so the calendar
// day cannot drift across a timezone boundary.
func dateKey(value interface{}) (string, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return "", false
			}
			n = int64(f)
		}
		return epochKey(n), true
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && len(s) >= 9 {
			return epochKey(n), true
		}
		if len(s) >= 10 {
			if t, err := time.ParseInLocation("2006-01-02", s[:10], time.Local); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return "", false
	default:
		return "", false
	}
}

func epochKey(n int64) string {
	var t time.Time
	if n < 1_000_000_000_000 {
		t = time.Unix(n, 0)
	} else {
		t = time.UnixMilli(n)
	}
	return t.In(time.Local).Format("2006-01-02")
}

// parseSlot maps one slot name onto the slot enum, case-insensitively.
// Unknown names are dropped silently.
func parseSlot(value interface{}) (Slot, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
	switch normalized {
	case "morning", "am":
		return SlotMorning, true
	case "afternoon", "pm":
		return SlotAfternoon, true
	case "fullday", "full", "allday", "wholeday":
		return SlotFullDay, true
	}
	return "", false
}

func dateKeys(list []interface{}) []string {
	keys := make([]string, 0, len(list))
	for _, item := range list {
		if key, ok := dateKey(item); ok {
			keys = append(keys, key)
		}
	}
	keys = dedupe(keys)
	sort.Strings(keys)
	return keys
}

func slotSet(list []interface{}) []Slot {
	seen := make(map[Slot]bool, 3)
	for _, item := range list {
		if slot, ok := parseSlot(item); ok {
			seen[slot] = true
		}
	}
	slots := make([]Slot, 0, len(seen))
	for _, candidate := range SlotPriority {
		if seen[candidate] {
			slots = append(slots, candidate)
		}
	}
	return slots
}

func sortedKeys(byDate map[string][]Slot) []string {
	keys := make([]string, 0, len(byDate))
	for key := range byDate {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := keys[:0]
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}
