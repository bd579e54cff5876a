package pdfa

import (
	"encoding/binary"
	"math"
	"time"

	"seehuhn.de/go/icc"
)

// Tags of a matrix/TRC display profile
const (
	tagMediaWhitePoint icc.TagType = 0x77747074 // "wtpt"
	tagRedColorant     icc.TagType = 0x7258595A // "rXYZ"
	tagGreenColorant   icc.TagType = 0x6758595A // "gXYZ"
	tagBlueColorant    icc.TagType = 0x6258595A // "bXYZ"
	tagRedTRC          icc.TagType = 0x72545243 // "rTRC"
	tagGreenTRC        icc.TagType = 0x67545243 // "gTRC"
	tagBlueTRC         icc.TagType = 0x62545243 // "bTRC"
)

// srgbCurvePoints is the size of the sampled sRGB transfer curve
const srgbCurvePoints = 1024

// srgbProfile returns an ICC version 2 display profile for sRGB, with the
// colorants adapted to the D50 connection space
func srgbProfile() []byte {
	trc := srgbCurve()
	p := &icc.Profile{
		Version:         icc.Version2_1_0,
		Class:           icc.DisplayDeviceProfile,
		ColorSpace:      icc.RGBSpace,
		PCS:             icc.CIEXYZSpace,
		CreationDate:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RenderingIntent: icc.Perceptual,
		TagData: map[icc.TagType][]byte{
			icc.ProfileDescription: textDescription(outputCondition),
			icc.Copyright:          textTag("No copyright, use freely"),
			tagMediaWhitePoint:     xyzTag(0.9642, 1.0, 0.8249),
			tagRedColorant:         xyzTag(0.4361, 0.2225, 0.0139),
			tagGreenColorant:       xyzTag(0.3851, 0.7169, 0.0971),
			tagBlueColorant:        xyzTag(0.1431, 0.0606, 0.7141),
			tagRedTRC:              trc,
			tagGreenTRC:            trc,
			tagBlueTRC:             trc,
		},
	}
	return p.Encode()
}

// s15Fixed16 encodes v as a signed 15.16 fixed point number
func s15Fixed16(v float64) uint32 {
	return uint32(int32(math.Round(v * 65536)))
}

func xyzTag(x, y, z float64) []byte {
	buf := make([]byte, 20)
	copy(buf, "XYZ ")
	binary.BigEndian.PutUint32(buf[8:], s15Fixed16(x))
	binary.BigEndian.PutUint32(buf[12:], s15Fixed16(y))
	binary.BigEndian.PutUint32(buf[16:], s15Fixed16(z))
	return buf
}

// srgbCurve samples the IEC 61966-2-1 transfer function as a curveType
func srgbCurve() []byte {
	buf := make([]byte, 12+2*srgbCurvePoints)
	copy(buf, "curv")
	binary.BigEndian.PutUint32(buf[8:], srgbCurvePoints)
	for i := 0; i < srgbCurvePoints; i++ {
		v := float64(i) / (srgbCurvePoints - 1)
		if v <= 0.04045 {
			v /= 12.92
		} else {
			v = math.Pow((v+0.055)/1.055, 2.4)
		}
		binary.BigEndian.PutUint16(buf[12+2*i:], uint16(math.Round(v*65535)))
	}
	return buf
}

func textTag(s string) []byte {
	buf := make([]byte, 8+len(s)+1)
	copy(buf, "text")
	copy(buf[8:], s)
	return buf
}

// textDescription encodes the version 2 textDescriptionType with an ASCII
// description and empty Unicode and ScriptCode parts
func textDescription(s string) []byte {
	n := len(s) + 1
	buf := make([]byte, 12+n+4+4+2+1+67)
	copy(buf, "desc")
	binary.BigEndian.PutUint32(buf[8:], uint32(n))
	copy(buf[12:], s)
	return buf
}
