package availability

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestNormalizeFlatObject(t *testing.T) {
	view := Normalize(json.RawMessage(`{"dates":["2024-06-12","2024-06-10","2024-06-10"],"slots":["MORNING","Full_Day","brunch"]}`))

	if !reflect.DeepEqual(view.Dates, []string{"2024-06-10", "2024-06-12"}) {
		t.Fatalf("unexpected dates: %v", view.Dates)
	}
	// Unknown slot names are dropped, known ones kept in priority order.
	if !reflect.DeepEqual(view.Slots, []Slot{SlotMorning, SlotFullDay}) {
		t.Fatalf("unexpected slots: %v", view.Slots)
	}
	if view.ByDate != nil {
		t.Fatalf("expected no per-date mapping, got %v", view.ByDate)
	}
}

func TestNormalizeKeyedPerDateMapWinsOverFlatLists(t *testing.T) {
	raw := json.RawMessage(`{
		"dates": ["2024-01-01"],
		"by_date": {"2024-06-10":["morning"],"2024-06-12":["FULLDAY"]}
	}`)
	view := Normalize(raw)

	if !reflect.DeepEqual(view.Dates, []string{"2024-06-10", "2024-06-12"}) {
		t.Fatalf("expected dates derived from mapping, got %v", view.Dates)
	}
	if !reflect.DeepEqual(view.ByDate["2024-06-10"], []Slot{SlotMorning}) {
		t.Fatalf("unexpected mapping: %v", view.ByDate)
	}
	if !reflect.DeepEqual(view.ByDate["2024-06-12"], []Slot{SlotFullDay}) {
		t.Fatalf("unexpected mapping: %v", view.ByDate)
	}
}

func TestNormalizeBarePerDateMap(t *testing.T) {
	view := Normalize(json.RawMessage(`{"2024-06-10":["am"],"2024-06-11":["pm","morning"]}`))

	if !reflect.DeepEqual(view.Dates, []string{"2024-06-10", "2024-06-11"}) {
		t.Fatalf("unexpected dates: %v", view.Dates)
	}
	if !reflect.DeepEqual(view.ByDate["2024-06-11"], []Slot{SlotMorning, SlotAfternoon}) {
		t.Fatalf("unexpected slots: %v", view.ByDate["2024-06-11"])
	}
}

func TestNormalizeArrays(t *testing.T) {
	dates := Normalize(json.RawMessage(`["2024-06-10","2024-06-12"]`))
	if !reflect.DeepEqual(dates.Dates, []string{"2024-06-10", "2024-06-12"}) || len(dates.Slots) != 0 {
		t.Fatalf("unexpected date-array view: %+v", dates)
	}

	slots := Normalize(json.RawMessage(`["AFTERNOON","full day"]`))
	if !reflect.DeepEqual(slots.Slots, []Slot{SlotAfternoon, SlotFullDay}) || len(slots.Dates) != 0 {
		t.Fatalf("unexpected slot-array view: %+v", slots)
	}

	records := Normalize(json.RawMessage(`[{"date":"2024-06-10","slots":["morning"]},{"date":"2024-06-12","slots":["fullday"]}]`))
	if !reflect.DeepEqual(records.Dates, []string{"2024-06-10", "2024-06-12"}) {
		t.Fatalf("unexpected record-array dates: %v", records.Dates)
	}
	if !reflect.DeepEqual(records.ByDate["2024-06-12"], []Slot{SlotFullDay}) {
		t.Fatalf("unexpected record-array mapping: %v", records.ByDate)
	}
}

func TestNormalizeEpochValues(t *testing.T) {
	seconds := int64(1718150400)
	millis := seconds * 1000
	want := time.Unix(seconds, 0).In(time.Local).Format("2006-01-02")

	raw, _ := json.Marshal([]int64{seconds, millis})
	view := Normalize(raw)

	if !reflect.DeepEqual(view.Dates, []string{want}) {
		t.Fatalf("expected both epochs to land on %s, got %v", want, view.Dates)
	}
}

func TestNormalizeMalformedInputYieldsEmptyView(t *testing.T) {
	inputs := []string{
		``,
		`null`,
		`42`,
		`"not a shape"`,
		`[]`,
		`{}`,
		`{"foo":"bar"}`,
		`[true,false]`,
		`["2024-06-10", {"nested":"record"}]`,
		`{"slots":["teatime"]}`,
		`not even json`,
	}
	for _, input := range inputs {
		view := Normalize(json.RawMessage(input))
		if !view.Empty() {
			t.Fatalf("input %q: expected empty view, got %+v", input, view)
		}
	}
}

func TestDateSelectableAndSlotResolution(t *testing.T) {
	view := View{
		Dates: []string{"2024-06-10", "2024-06-12"},
		Slots: []Slot{SlotAfternoon},
		ByDate: map[string][]Slot{
			"2024-06-10": {SlotMorning},
			"2024-06-12": {SlotFullDay},
		},
	}

	if !view.DateSelectable("2024-06-10") || view.DateSelectable("2024-06-11") {
		t.Fatal("selectability must follow the dates set")
	}
	if slot, ok := view.AutoSlot("2024-06-10"); !ok || slot != SlotMorning {
		t.Fatalf("expected morning, got %v %v", slot, ok)
	}
	if slot, ok := view.AutoSlot("2024-06-12"); !ok || slot != SlotFullDay {
		t.Fatalf("expected fullday, got %v %v", slot, ok)
	}
	// Date absent from byDate falls back to the flat slot set.
	if !reflect.DeepEqual(view.SlotsFor("2024-06-20"), []Slot{SlotAfternoon}) {
		t.Fatalf("expected flat fallback, got %v", view.SlotsFor("2024-06-20"))
	}

	// No restriction at all: every date selectable, no auto slot.
	open := View{}
	if !open.DateSelectable("1999-01-01") {
		t.Fatal("empty dates set must mean no restriction")
	}
	if _, ok := open.AutoSlot("1999-01-01"); ok {
		t.Fatal("no slots known, nothing to auto-select")
	}
}
