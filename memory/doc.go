// Package memory contains the concrete MemoryStore implementation. The store
// interface and the UserMemory entry type reside in the core package; depend
// on core.MemoryStore in your code and select the durable backend (see package
// snapshot) at wiring time.
//
// A Store without a backend keeps everything in process memory; Save and Load
// become no-ops. This is the configuration used by most tests.
package memory
