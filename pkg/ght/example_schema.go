package ght

// ExampleLiDARSchema returns the conventional point-cloud dimension layout
// used by ghtinspect: X and Y (encoded in the hash, carried here only so
// position/name lookups stay uniform), plus the common LAS point
// attributes a filter or info call might reference by name.
func ExampleLiDARSchema() (*Schema, error) {
	dims := []Dimension{
		{Position: 0, Name: "X", Description: "longitude", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 1, Name: "Y", Description: "latitude", Type: Float64, Scale: 1e-7, Offset: 0},
		{Position: 2, Name: "Z", Description: "elevation", Type: Float64, Scale: 0.01, Offset: 0},
		{Position: 3, Name: "Intensity", Description: "pulse return intensity", Type: Uint16, Scale: 1, Offset: 0},
		{Position: 4, Name: "ReturnNumber", Description: "pulse return number", Type: Uint8, Scale: 1, Offset: 0},
		{Position: 5, Name: "NumberOfReturns", Description: "pulse return count", Type: Uint8, Scale: 1, Offset: 0},
		{Position: 6, Name: "ScanDirection", Description: "scan direction flag", Type: Uint8, Scale: 1, Offset: 0},
		{Position: 7, Name: "FlightLineEdge", Description: "edge of flight line flag", Type: Uint8, Scale: 1, Offset: 0},
		{Position: 8, Name: "Classification", Description: "point classification", Type: Uint8, Scale: 1, Offset: 0},
		{Position: 9, Name: "ScanAngle", Description: "scan angle rank", Type: Int8, Scale: 1, Offset: 0},
		{Position: 10, Name: "PointSourceID", Description: "flight line ID", Type: Uint16, Scale: 1, Offset: 0},
		{Position: 11, Name: "Red", Description: "red channel", Type: Uint16, Scale: 1, Offset: 0},
		{Position: 12, Name: "Green", Description: "green channel", Type: Uint16, Scale: 1, Offset: 0},
		{Position: 13, Name: "Blue", Description: "blue channel", Type: Uint16, Scale: 1, Offset: 0},
	}
	return NewSchema(dims)
}
