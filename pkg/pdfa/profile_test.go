package pdfa

import (
	"testing"

	"seehuhn.de/go/icc"
)

func TestSRGBProfile(t *testing.T) {
	data := srgbProfile()
	p, err := icc.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Version != icc.Version2_1_0 || p.Class != icc.DisplayDeviceProfile {
		t.Errorf("Unexpected header: version %s class %s", p.Version, p.Class)
	}
	if p.ColorSpace != icc.RGBSpace || p.PCS != icc.CIEXYZSpace {
		t.Errorf("Unexpected color spaces: %s to %s", p.ColorSpace, p.PCS)
	}
	for _, tag := range []icc.TagType{icc.ProfileDescription, tagMediaWhitePoint, tagRedColorant, tagGreenColorant, tagBlueColorant, tagRedTRC, tagGreenTRC, tagBlueTRC} {
		if len(p.TagData[tag]) == 0 {
			t.Errorf("Missing tag %s", tag)
		}
	}
	copyright, err := p.Copyright()
	if err != nil || len(copyright) != 1 {
		t.Errorf("Copyright = %v, %v", copyright, err)
	}

	trc := p.TagData[tagRedTRC]
	if string(trc[:4]) != "curv" {
		t.Fatalf("Unexpected curve type %q", trc[:4])
	}
	last := int(trc[len(trc)-2])<<8 | int(trc[len(trc)-1])
	if trc[12] != 0 || trc[13] != 0 || last != 0xFFFF {
		t.Errorf("Curve does not span the full range: first %d, last %d", int(trc[12])<<8|int(trc[13]), last)
	}
}
