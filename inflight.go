package mqttcore

// inflightPublish holds the single outstanding outbound PUBLISH awaiting
// its QoS handshake to complete, so it can be replayed verbatim after a
// reconnect with clean_session=false. Grounded on the teacher's
// qos.go/qos_memory.go QoS tracking, collapsed from "one map per QoS
// level across many sessions" to the one optional slot spec.md's
// at-most-one-inflight invariant requires.
type inflightPublish struct {
	occupied     bool
	packetID     uint16
	qos          byte
	data         []byte
	pubrelPending bool
}

// set stores a copy of the encoded PUBLISH bytes as the inflight record.
func (f *inflightPublish) set(packetID uint16, qos byte, encoded []byte) {
	if cap(f.data) < len(encoded) {
		f.data = make([]byte, len(encoded))
	}
	f.data = f.data[:len(encoded)]
	copy(f.data, encoded)

	f.occupied = true
	f.packetID = packetID
	f.qos = qos
	f.pubrelPending = false
}

// clear drops the inflight record after a terminal ack.
func (f *inflightPublish) clear() {
	f.occupied = false
	f.pubrelPending = false
}

// matches reports whether an incoming ack's packet ID terminates the
// inflight record.
func (f *inflightPublish) matches(packetID uint16) bool {
	return f.occupied && f.packetID == packetID
}

// qos2RxSet is the fixed-capacity set of inbound QoS 2 packet IDs
// currently mid-handshake (PUBLISH received, PUBREL not yet seen).
// Grounded on the teacher's qos.go/flow_control.go QoS 2 dedup tracking,
// collapsed from an unbounded map to the fixed-size array spec.md §3
// names; 0 marks a free slot, matching the allocator's never-returns-0
// guarantee so a real ID can never collide with "free".
type qos2RxSet struct {
	ids []uint16
}

func newQoS2RxSet(capacity int) *qos2RxSet {
	return &qos2RxSet{ids: make([]uint16, capacity)}
}

// contains reports whether id is already mid-flow.
func (s *qos2RxSet) contains(id uint16) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// insert records id as mid-flow if there is a free slot, reporting
// whether it had room. If the set is already full, the caller must
// still ack (PUBREC) per spec.md §4.5 without tracking the id for
// dedup — the broker will retry.
func (s *qos2RxSet) insert(id uint16) bool {
	for i, existing := range s.ids {
		if existing == 0 {
			s.ids[i] = id
			return true
		}
	}
	return false
}

// remove frees id on PUBREL, a no-op if it wasn't tracked (the set was
// full when the PUBLISH first arrived).
func (s *qos2RxSet) remove(id uint16) {
	for i, existing := range s.ids {
		if existing == id {
			s.ids[i] = 0
			return
		}
	}
}
