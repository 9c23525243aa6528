// internal/exif/attributes.go
package exif

// TagImageDescription is the free-text description attribute
const TagImageDescription = "ImageDescription"

// Tags lists, in copy order, the attributes preserved when an image is
// re-encoded. Names follow the platform ExifInterface constants.
var Tags = []string{
	"FNumber",
	"ExposureTime",
	"ISOSpeedRatings",
	"GPSAltitude",
	"GPSAltitudeRef",
	"FocalLength",
	"GPSDateStamp",
	"WhiteBalance",
	"GPSProcessingMethod",
	"GPSTimeStamp",
	"DateTime",
	"Flash",
	"GPSLatitude",
	"GPSLatitudeRef",
	"GPSLongitude",
	"GPSLongitudeRef",
	"Make",
	"Model",
	"Orientation",
	TagImageDescription,
}
