package domain

// Consultation is the read-only view of a scheduled clinical encounter.
// The record of truth lives in the consultation service; the gateway
// only ever looks these up, it never writes them.
type Consultation struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId"`
	ProviderID string `json:"providerId"`
	Status     string `json:"status"`
}
