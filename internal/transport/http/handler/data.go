package handler

import "net/http"

// bloodGroups is the static reference list served to registration forms.
var bloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// DataHandler serves static reference data.
type DataHandler struct{}

func NewDataHandler() *DataHandler { return &DataHandler{} }

func (h *DataHandler) BloodGroups(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "", bloodGroups)
}
