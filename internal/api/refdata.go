package api

import "net/http"

// option is a value/label pair for frontend dropdowns.
type option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var categories = []option{
	{Value: "home_repair", Label: "Home Repair"},
	{Value: "cleaning", Label: "Cleaning"},
	{Value: "tutoring", Label: "Tutoring"},
	{Value: "delivery", Label: "Delivery"},
	{Value: "design", Label: "Design & Creative"},
	{Value: "tech_support", Label: "Tech Support"},
	{Value: "beauty", Label: "Beauty & Wellness"},
	{Value: "automotive", Label: "Automotive"},
	{Value: "other", Label: "Other"},
}

var states = []option{
	{Value: "andhra-pradesh", Label: "Andhra Pradesh"},
	{Value: "arunachal-pradesh", Label: "Arunachal Pradesh"},
	{Value: "assam", Label: "Assam"},
	{Value: "bihar", Label: "Bihar"},
	{Value: "chhattisgarh", Label: "Chhattisgarh"},
	{Value: "goa", Label: "Goa"},
	{Value: "gujarat", Label: "Gujarat"},
	{Value: "haryana", Label: "Haryana"},
	{Value: "himachal-pradesh", Label: "Himachal Pradesh"},
	{Value: "jharkhand", Label: "Jharkhand"},
	{Value: "karnataka", Label: "Karnataka"},
	{Value: "kerala", Label: "Kerala"},
	{Value: "madhya-pradesh", Label: "Madhya Pradesh"},
	{Value: "maharashtra", Label: "Maharashtra"},
	{Value: "manipur", Label: "Manipur"},
	{Value: "meghalaya", Label: "Meghalaya"},
	{Value: "mizoram", Label: "Mizoram"},
	{Value: "nagaland", Label: "Nagaland"},
	{Value: "odisha", Label: "Odisha"},
	{Value: "punjab", Label: "Punjab"},
	{Value: "rajasthan", Label: "Rajasthan"},
	{Value: "sikkim", Label: "Sikkim"},
	{Value: "tamil-nadu", Label: "Tamil Nadu"},
	{Value: "telangana", Label: "Telangana"},
	{Value: "tripura", Label: "Tripura"},
	{Value: "uttar-pradesh", Label: "Uttar Pradesh"},
	{Value: "uttarakhand", Label: "Uttarakhand"},
	{Value: "west-bengal", Label: "West Bengal"},
	{Value: "delhi", Label: "Delhi"},
	{Value: "mumbai", Label: "Mumbai"},
	{Value: "kolkata", Label: "Kolkata"},
	{Value: "chennai", Label: "Chennai"},
}

// GetCategories returns the service category reference list
func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// GetStates returns the state reference list
func (h *Handler) GetStates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"states": states})
}
