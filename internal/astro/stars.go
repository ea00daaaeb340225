package astro

import (
	"sort"
	"strings"
	"time"
)

// Star is a fixed star with the Arabic name it is known by.
type Star struct {
	Name   string  // IAU name
	Arabic string  // transliterated name from the Arabic star lists
	RAdeg  float64 // J2000
	DecDeg float64 // J2000
	Mag    float64
}

// StarCatalog holds the stars drawn on the sky view.
type StarCatalog struct {
	Stars []Star
}

// VisibleStar is a star above the observer's horizon.
type VisibleStar struct {
	Star
	AzDeg float64
	ElDeg float64
}

// DefaultStarCatalog returns the bright stars whose names come from the
// Arabic astronomical tradition, brightest first.
func DefaultStarCatalog() StarCatalog {
	return StarCatalog{Stars: fixedStars}
}

// Lookup finds a star by its IAU or Arabic name, ignoring case.
func (c StarCatalog) Lookup(name string) (Star, bool) {
	for _, s := range c.Stars {
		if strings.EqualFold(s.Name, name) || strings.EqualFold(s.Arabic, name) {
			return s, true
		}
	}
	return Star{}, false
}

// AboveHorizon returns the stars with positive elevation for observer at
// t, brightest first.
func (c StarCatalog) AboveHorizon(observer GeoCoordinate, t time.Time) []VisibleStar {
	var out []VisibleStar
	for _, s := range c.Stars {
		h := EquatorialToHorizontal(SkyCoord{RAdeg: s.RAdeg, DecDeg: s.DecDeg}, observer, t)
		if h.ElDeg <= 0 {
			continue
		}
		out = append(out, VisibleStar{Star: s, AzDeg: h.AzDeg, ElDeg: h.ElDeg})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mag < out[j].Mag })
	return out
}

var fixedStars = []Star{
	{"Sirius", "al-Shiʿrā", 101.287, -16.716, -1.46},
	{"Canopus", "Suhayl", 95.988, -52.696, -0.74},
	{"Arcturus", "al-Simāk al-Rāmiḥ", 213.915, 19.182, -0.05},
	{"Vega", "al-Nasr al-Wāqiʿ", 279.235, 38.784, 0.03},
	{"Capella", "al-ʿAyyūq", 79.172, 45.998, 0.08},
	{"Rigel", "Rijl al-Jawzāʾ", 78.634, -8.202, 0.13},
	{"Procyon", "al-Shiʿrā al-Shāmiyya", 114.826, 5.225, 0.34},
	{"Achernar", "Ākhir al-Nahr", 24.429, -57.237, 0.46},
	{"Betelgeuse", "Yad al-Jawzāʾ", 88.793, 7.407, 0.50},
	{"Altair", "al-Nasr al-Ṭāʾir", 297.696, 8.868, 0.76},
	{"Aldebaran", "al-Dabarān", 68.980, 16.509, 0.85},
	{"Antares", "Qalb al-ʿAqrab", 247.352, -26.432, 0.96},
	{"Spica", "al-Simāk al-Aʿzal", 201.298, -11.161, 0.97},
	{"Fomalhaut", "Fam al-Ḥūt", 344.413, -29.622, 1.16},
	{"Deneb", "Dhanab al-Dajāja", 310.358, 45.280, 1.25},
	{"Regulus", "Qalb al-Asad", 152.093, 11.967, 1.35},
	{"Shaula", "al-Shawla", 263.402, -37.104, 1.63},
	{"Elnath", "al-Naṭḥ", 81.573, 28.608, 1.65},
	{"Alnilam", "al-Niẓām", 84.053, -1.202, 1.69},
	{"Alnair", "al-Nayyir", 332.058, -46.961, 1.74},
	{"Alnitak", "al-Niṭāq", 85.190, -1.943, 1.77},
	{"Alioth", "al-Jawn", 193.507, 55.960, 1.77},
	{"Dubhe", "al-Dubb", 165.932, 61.751, 1.79},
	{"Mirfak", "Mirfaq al-Thurayyā", 51.081, 49.861, 1.79},
	{"Kaus Australis", "al-Qaws", 276.043, -34.384, 1.85},
	{"Alkaid", "al-Qāʾid", 206.885, 49.313, 1.86},
	{"Menkalinan", "Mankib Dhī al-ʿInān", 89.882, 44.948, 1.90},
	{"Alhena", "al-Hanʿa", 99.428, 16.399, 1.93},
	{"Alphard", "al-Fard", 141.897, -8.659, 2.00},
	{"Hamal", "al-Ḥamal", 31.793, 23.463, 2.00},
	{"Polaris", "al-Jady", 37.954, 89.264, 2.02},
	{"Diphda", "al-Ḍifdiʿ al-Thānī", 10.897, -17.987, 2.02},
	{"Nunki", "al-Naʿāʾim", 283.816, -26.297, 2.02},
	{"Mizar", "al-Miʾzar", 200.981, 54.925, 2.04},
	{"Mirach", "al-Marāq", 17.433, 35.621, 2.05},
	{"Alpheratz", "Surrat al-Faras", 2.097, 29.091, 2.06},
	{"Algieba", "al-Jabha", 146.463, 19.842, 2.08},
	{"Kochab", "al-Kawkab al-Shamālī", 222.676, 74.156, 2.08},
	{"Rasalhague", "Raʾs al-Ḥawwāʾ", 263.734, 12.560, 2.08},
	{"Saiph", "al-Sayf", 86.939, -9.670, 2.09},
	{"Algol", "Raʾs al-Ghūl", 47.042, 40.957, 2.12},
	{"Denebola", "Dhanab al-Asad", 177.265, 14.572, 2.13},
	{"Alphecca", "al-Fakka", 233.672, 26.715, 2.23},
	{"Mintaka", "al-Minṭaqa", 83.002, -0.299, 2.23},
	{"Sadr", "al-Ṣadr", 305.557, 40.257, 2.23},
	{"Eltanin", "al-Tinnīn", 269.152, 51.489, 2.23},
	{"Merak", "al-Maraqq", 165.460, 56.382, 2.37},
	{"Ankaa", "al-ʿAnqāʾ", 6.571, -42.306, 2.38},
	{"Enif", "al-Anf", 326.046, 9.875, 2.39},
	{"Scheat", "al-Sāq", 345.944, 28.083, 2.42},
	{"Phecda", "al-Fakhidh", 178.458, 53.695, 2.44},
	{"Markab", "Mankib al-Faras", 346.190, 15.205, 2.49},
	{"Alderamin", "al-Dhirāʿ al-Yamīn", 319.645, 62.586, 2.51},
	{"Zubeneschamali", "al-Zubānā al-Shamāliyya", 229.252, -9.383, 2.61},
	{"Unukalhai", "ʿUnuq al-Ḥayya", 236.067, 6.426, 2.65},
	{"Zubenelgenubi", "al-Zubānā al-Janūbiyya", 222.720, -16.042, 2.75},
	{"Algorab", "al-Ghurāb", 187.466, -16.515, 2.95},
	{"Sadalmelik", "Saʿd al-Malik", 331.446, -0.320, 2.96},
	{"Megrez", "al-Maghriz", 183.857, 57.033, 3.31},
	{"Thuban", "al-Thuʿbān", 211.097, 64.376, 3.65},
	{"Alkes", "al-Kaʾs", 164.944, -18.299, 4.08},
}
