package context

import "testing"

func TestSecurityContextImmutableAcrossInvokeReturn(t *testing.T) {
	c := New(7, 1)
	if c.AppletID() != 7 {
		t.Fatalf("AppletID = %d, want 7", c.AppletID())
	}
	c.Invoke(2)
	if c.AppletID() != 7 {
		t.Fatal("security context changed across invoke")
	}
	if c.CurrentPackage() != 2 {
		t.Fatalf("CurrentPackage = %d, want 2", c.CurrentPackage())
	}
	if err := c.Return(); err != nil {
		t.Fatal(err)
	}
	if c.AppletID() != 7 {
		t.Fatal("security context changed across return")
	}
	if c.CurrentPackage() != 1 {
		t.Fatalf("CurrentPackage = %d, want 1 after return", c.CurrentPackage())
	}
}

func TestReturnUnderflowFaults(t *testing.T) {
	c := New(1, 1)
	if err := c.Return(); err == nil {
		t.Fatal("expected underflow error popping the starting package")
	}
}
