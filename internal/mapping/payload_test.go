package mapping

import "testing"

func TestInitialIssueComments(t *testing.T) {
	m := New(testSnapshot(), testLog())

	comments := m.InitialIssueComments("The printer is on fire", "Daniel Hedges")
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0]
	if c.Subject != "CSV Import" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if c.Body != "The printer is on fire" {
		t.Errorf("Body = %q", c.Body)
	}
	if c.Tech != "Daniel Hedges" {
		t.Errorf("Tech = %q", c.Tech)
	}
	if !c.Hidden || !c.DoNotEmail {
		t.Error("initial issue comment must be hidden and not emailed")
	}
}

func TestInitialIssueCommentsDefaults(t *testing.T) {
	m := New(testSnapshot(), testLog())

	if got := m.InitialIssueComments("", "Daniel Hedges"); got != nil {
		t.Errorf("empty initial issue produced %d comments", len(got))
	}

	comments := m.InitialIssueComments("Something broke", "")
	if len(comments) != 1 || comments[0].Tech != "None" {
		t.Errorf("missing contact should fall back to None, got %+v", comments)
	}
}
