package dupes_test

import (
	"testing"

	"dupescan/internal/dupes"
)

func TestRecordGroupsPathsByFingerprint(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")
	index.Record("/data/b.txt", "bbb")
	index.Record("/data/c.txt", "aaa")

	if index.Len() != 2 {
		t.Fatalf("expected 2 groups, got %d", index.Len())
	}

	snapshot := index.Snapshot()
	group, ok := snapshot["aaa"]
	if !ok {
		t.Fatalf("missing group for fingerprint aaa")
	}
	if group.ID != 1 {
		t.Fatalf("first fingerprint should get ID 1, got %d", group.ID)
	}
	if len(group.Paths) != 2 || group.Paths[0] != "/data/a.txt" || group.Paths[1] != "/data/c.txt" {
		t.Fatalf("unexpected members: %v", group.Paths)
	}
	if snapshot["bbb"].ID != 2 {
		t.Fatalf("second fingerprint should get ID 2, got %d", snapshot["bbb"].ID)
	}
}

func TestRecordIsIdempotentPerPath(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")
	index.Record("/data/a.txt", "aaa")

	if index.Len() != 1 {
		t.Fatalf("expected 1 group, got %d", index.Len())
	}
	if got := len(index.Snapshot()["aaa"].Paths); got != 1 {
		t.Fatalf("path recorded twice: %d members", got)
	}
}

func TestRecordMovesPathOnNewFingerprint(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")
	index.Record("/data/b.txt", "aaa")
	index.Record("/data/a.txt", "bbb")

	snapshot := index.Snapshot()
	if len(snapshot["aaa"].Paths) != 1 || snapshot["aaa"].Paths[0] != "/data/b.txt" {
		t.Fatalf("old group should only hold b.txt: %v", snapshot["aaa"].Paths)
	}
	if len(snapshot["bbb"].Paths) != 1 || snapshot["bbb"].Paths[0] != "/data/a.txt" {
		t.Fatalf("new group should hold a.txt: %v", snapshot["bbb"].Paths)
	}
	if dig, _ := index.DigestFor("/data/a.txt"); dig != "bbb" {
		t.Fatalf("DigestFor returned %q", dig)
	}
}

func TestRemoveDeletesEmptyGroupsAndRenumbers(t *testing.T) {
	index := dupes.NewIndex()
	// Insertion order deliberately disagrees with lexical order.
	index.Record("/data/1.bin", "ccc")
	index.Record("/data/2.bin", "ccc")
	index.Record("/data/3.bin", "aaa")
	index.Record("/data/4.bin", "aaa")
	index.Record("/data/5.bin", "bbb")
	index.Record("/data/6.bin", "bbb")

	snapshot := index.Snapshot()
	if snapshot["ccc"].ID != 1 || snapshot["aaa"].ID != 2 || snapshot["bbb"].ID != 3 {
		t.Fatalf("insertion-order IDs wrong: ccc=%d aaa=%d bbb=%d",
			snapshot["ccc"].ID, snapshot["aaa"].ID, snapshot["bbb"].ID)
	}

	index.Remove([]string{"/data/3.bin", "/data/4.bin"})

	if index.Len() != 2 {
		t.Fatalf("expected 2 surviving groups, got %d", index.Len())
	}
	snapshot = index.Snapshot()
	if _, ok := snapshot["aaa"]; ok {
		t.Fatalf("emptied group still present")
	}
	// Survivors renumber 1..N by fingerprint order, not by prior ID.
	if snapshot["bbb"].ID != 1 {
		t.Fatalf("bbb should renumber to 1, got %d", snapshot["bbb"].ID)
	}
	if snapshot["ccc"].ID != 2 {
		t.Fatalf("ccc should renumber to 2, got %d", snapshot["ccc"].ID)
	}
	if _, ok := index.DigestFor("/data/3.bin"); ok {
		t.Fatalf("removed path still has a fingerprint")
	}
}

func TestRemoveRenumbersEvenWithoutEmptiedGroups(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/x.bin", "fff")
	index.Record("/data/y.bin", "fff")
	index.Record("/data/z.bin", "fff")
	index.Record("/data/w.bin", "000")

	index.Remove([]string{"/data/z.bin"})

	snapshot := index.Snapshot()
	if snapshot["000"].ID != 1 || snapshot["fff"].ID != 2 {
		t.Fatalf("IDs not lexical after removal: 000=%d fff=%d",
			snapshot["000"].ID, snapshot["fff"].ID)
	}
	if len(snapshot["fff"].Paths) != 2 {
		t.Fatalf("group should keep 2 members, got %v", snapshot["fff"].Paths)
	}
}

func TestRemoveUnknownPathIsHarmless(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")

	index.Remove([]string{"/data/never-recorded.txt"})

	if index.Len() != 1 {
		t.Fatalf("group count changed: %d", index.Len())
	}
	if index.Snapshot()["aaa"].ID != 1 {
		t.Fatalf("ID changed: %d", index.Snapshot()["aaa"].ID)
	}
}

func TestLabelOnlyForDuplicateGroups(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")
	index.Record("/data/b.txt", "bbb")
	index.Record("/data/c.txt", "bbb")

	snapshot := index.Snapshot()
	if label := snapshot["aaa"].Label(); label != "" {
		t.Fatalf("singleton group should have no label, got %q", label)
	}
	if label := snapshot["bbb"].Label(); label != "Group 2" {
		t.Fatalf("unexpected label %q", label)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	index := dupes.NewIndex()
	index.Record("/data/a.txt", "aaa")

	snapshot := index.Snapshot()
	snapshot["aaa"].Paths[0] = "/mutated"

	if got := index.Snapshot()["aaa"].Paths[0]; got != "/data/a.txt" {
		t.Fatalf("snapshot mutation leaked into index: %q", got)
	}
}
