package blur

// ErrorResponse is the JSON body returned with every non-2xx response from
// the blur API.
type ErrorResponse struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// Response headers describing the blur that was applied, after the radius
// was normalized.
const (
	HeaderRadius    = "X-Blur-Radius"
	HeaderMode      = "X-Blur-Mode"
	HeaderIntensity = "X-Blur-Intensity"
)
