package log

import "testing"

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{DirectionIn.String(), "IN"},
		{DirectionOut.String(), "OUT"},
		{Direction(9).String(), "UNKNOWN"},
		{LayerTransport.String(), "TRANSPORT"},
		{LayerWire.String(), "WIRE"},
		{LayerCore.String(), "CORE"},
		{Layer(9).String(), "UNKNOWN"},
		{CategoryMessage.String(), "MESSAGE"},
		{CategoryControl.String(), "CONTROL"},
		{CategoryState.String(), "STATE"},
		{CategoryError.String(), "ERROR"},
		{CategoryCall.String(), "CALL"},
		{CategoryBind.String(), "BIND"},
		{Category(99).String(), "UNKNOWN"},
		{RoleDevice.String(), "DEVICE"},
		{RoleHost.String(), "HOST"},
		{Role(9).String(), "UNKNOWN"},
		{MessageTypeRequest.String(), "REQUEST"},
		{MessageTypeResponse.String(), "RESPONSE"},
		{MessageType(9).String(), "UNKNOWN"},
		{StateEntityConnection.String(), "CONNECTION"},
		{StateEntityDevice.String(), "DEVICE"},
		{StateEntity(9).String(), "UNKNOWN"},
		{ControlMsgPing.String(), "PING"},
		{ControlMsgPong.String(), "PONG"},
		{ControlMsgClose.String(), "CLOSE"},
		{ControlMsgType(9).String(), "UNKNOWN"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestEnumValuesAreStable(t *testing.T) {
	// Values are persisted in log files.
	if LayerCore != 2 {
		t.Errorf("LayerCore = %d, want 2", LayerCore)
	}
	if CategoryCall != 4 || CategoryBind != 5 {
		t.Errorf("CategoryCall, CategoryBind = %d, %d, want 4, 5", CategoryCall, CategoryBind)
	}
	if RoleHost != 1 {
		t.Errorf("RoleHost = %d, want 1", RoleHost)
	}
	if StateEntityDevice != 1 {
		t.Errorf("StateEntityDevice = %d, want 1", StateEntityDevice)
	}
}
