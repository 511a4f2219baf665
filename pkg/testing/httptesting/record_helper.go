package httptesting

import (
	"net/http"
	"os"
	"testing"
)

// RecordEnvVar turns on the recording mode, the real server is called and the responses are written to the record file
const RecordEnvVar = "TEST_HTTP_RECORD"

// RunHttpTestWithRecorder swaps the transport of the client with a recorder or a replaying MockTransport.
// It returns true when recording, the returned function must be called at the end of the test.
func RunHttpTestWithRecorder(t *testing.T, client *http.Client, recordFile string) (bool, func()) {
	if os.Getenv(RecordEnvVar) == "1" {
		recorder := NewRecorder(http.DefaultTransport)
		client.Transport = recorder
		return true, func() {
			if err := recorder.Save(recordFile); err != nil {
				t.Errorf("failed to save the recorded requests: %v", err)
			}
		}
	}

	recorder := NewRecorder(nil)
	if err := recorder.Load(recordFile); err != nil {
		t.Skipf("record file %s is not available: %v", recordFile, err)
	}

	mockTransport := &MockTransport{}
	if err := mockTransport.LoadFromRecorder(recorder); err != nil {
		t.Fatalf("failed to load the recordings: %v", err)
	}

	client.Transport = mockTransport
	return false, func() {}
}
