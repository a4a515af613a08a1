package game

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCellJSON_RoundTrip(t *testing.T) {
	board := []Cell{
		{ID: 1, Category: CategoryBonus, Effect: MoveEffect{Text: "Start"}},
		{ID: 2, Category: CategoryBonus, Effect: MoveEffect{Delta: 3, Text: "Forward 3"}},
		{ID: 3, Category: CategorySpecial, Effect: ReverseEffect{Steps: 2, Text: "Back 2"}},
		{ID: 4, Category: CategorySpecial, Effect: RestEffect{Turns: 1, Text: "Rest 1 turn"}},
		{ID: 5, Category: CategoryRestart, Effect: RestartEffect{Text: "Back to the start"}},
		{ID: 6, Category: CategoryTrap, Effect: TrapEffect{Trap: TrapAction{Name: "Corner", Description: "Stand in the corner"}}},
		punishmentCell(7, DynamicDiceMultiplier, 2),
		{ID: 8, Category: CategoryNormal},
	}

	b, err := json.Marshal(board)
	if err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}
	var got []Cell
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if !reflect.DeepEqual(board, got) {
		t.Errorf("Board changed in round trip:\nwant %+v\n got %+v", board, got)
	}
}

func TestCellJSON_WireFormat(t *testing.T) {
	b, err := json.Marshal(Cell{ID: 3, Category: CategorySpecial, Effect: ReverseEffect{Steps: 2, Text: "Back 2"}})
	if err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"id":3`, `"type":"special"`, `"position":3`, `"type":"reverse"`, `"value":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %s in %s", want, s)
		}
	}
}

func TestCellJSON_UnknownEffect(t *testing.T) {
	var c Cell
	err := json.Unmarshal([]byte(`{"id":4,"type":"special","effect":{"type":"teleport","value":3}}`), &c)
	if err == nil {
		t.Error("Expected an error for an unknown effect type")
	}
}

func TestCellJSON_PositionOnly(t *testing.T) {
	var c Cell
	if err := json.Unmarshal([]byte(`{"position":9,"type":"normal"}`), &c); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.ID != 9 || c.Effect != nil {
		t.Errorf("Expected cell 9 without effect, got %+v", c)
	}
}

func TestCellAt(t *testing.T) {
	board := plainBoard(10)
	if c := CellAt(board, 4); c == nil || c.ID != 4 {
		t.Errorf("Expected cell 4, got %v", c)
	}
	if c := CellAt(board, 0); c != nil {
		t.Errorf("Expected nil for position 0, got %v", c)
	}
	if c := CellAt(board, 11); c != nil {
		t.Errorf("Expected nil past the end, got %v", c)
	}
}
