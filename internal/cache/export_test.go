package cache

// newRecordingClient returns a MemoryClient that keeps every published message.
func newRecordingClient() *MemoryClient {
	m := NewMemoryClient()
	m.published = make(map[string][]string)
	return m
}

// Published returns the messages sent on channel so far.
func (m *MemoryClient) Published(channel string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.published[channel]...)
}
