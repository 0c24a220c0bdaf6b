package domain

import "testing"

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected ActionType
	}{
		{"MOVE", ActionMove},
		{"move", ActionMove},
		{"Attack", ActionAttack},
		{"CAST", ActionCast},
		{"trigger", ActionTrigger},
		{"WAIT", ActionWait},
		{"TICK", ActionUnknown}, // служебное действие клиенту недоступно
		{"UNKNOWN_ACTION", ActionUnknown},
		{"", ActionUnknown},
	}

	for _, tt := range tests {
		result := ParseAction(tt.input)
		if result != tt.expected {
			t.Errorf("ParseAction(%q) = %v, want %v", tt.input, result, tt.expected)
		}
	}
}

func TestActionType_String(t *testing.T) {
	tests := []struct {
		action   ActionType
		expected string
	}{
		{ActionMove, "MOVE"},
		{ActionAttack, "ATTACK"},
		{ActionCast, "CAST"},
		{ActionTick, "TICK"},
		{ActionUnknown, "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.action.String(); got != tt.expected {
			t.Errorf("ActionType(%d).String() = %q, want %q", tt.action, got, tt.expected)
		}
	}
}

func TestActionType_TextRoundTrip(t *testing.T) {
	for _, a := range []ActionType{ActionAttack, ActionCast, ActionTrigger, ActionMove, ActionWait, ActionTick} {
		b, err := a.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got ActionType
		if err := got.UnmarshalText(b); err != nil {
			t.Fatal(err)
		}
		if got != a {
			t.Errorf("round trip %v -> %s -> %v", a, b, got)
		}
	}
}
