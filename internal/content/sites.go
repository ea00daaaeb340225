package content

import (
	"fmt"
	"sort"

	"github.com/litescript/ls-qamar/internal/astro"
)

// Site categories.
const (
	HolyPlace       = "Lieu Saint"
	Observatory     = "Observatoire"
	KnowledgeCentre = "Centre Savoir"
	HistoricMosque  = "Mosquée Historique"
	Heritage        = "Patrimoine"
)

// Site is a place on the map page.
type Site struct {
	Name        string              `json:"name"`
	Coord       astro.GeoCoordinate `json:"coord"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
}

// Color is the marker color for the site's category.
func (s Site) Color() string {
	return CategoryColor(s.Category)
}

// CategoryColor maps a category to its marker color.
func CategoryColor(category string) string {
	switch category {
	case HolyPlace:
		return "#ec4899"
	case Observatory:
		return "#a855f7"
	case KnowledgeCentre:
		return "#6366f1"
	case HistoricMosque:
		return "#f59e0b"
	}
	return "#8b5cf6"
}

func site(name string, lat, lon float64, category, description string) Site {
	return Site{
		Name:        name,
		Coord:       astro.GeoCoordinate{Latitude: lat, Longitude: lon},
		Category:    category,
		Description: description,
	}
}

// Sites are the historical places of Islamic science and worship.
var Sites = []Site{
	site("La Mecque", 21.4225, 39.8262, HolyPlace,
		"Ville sainte de l'Islam, lieu de naissance du Prophète Muhammad (PBSL) et destination du Hajj."),
	site("Médine", 24.4672, 39.6118, HolyPlace,
		"Deuxième ville sainte, abritant la Mosquée du Prophète et sa tombe."),
	site("Al-Aqsa (Jérusalem)", 31.7767, 35.2345, HolyPlace,
		"Troisième lieu saint de l'Islam, première Qibla et lieu de l'ascension nocturne (Isra et Miraj)."),
	site("Observatoire de Maragha", 37.3897, 46.2478, Observatory,
		"Observatoire fondé en 1259 par Nasir al-Din al-Tusi, centre majeur de l'astronomie médiévale."),
	site("Maison de la Sagesse (Bagdad)", 33.3152, 44.3661, KnowledgeCentre,
		"Centre intellectuel de l'âge d'or islamique (IXe siècle), lieu de traduction et recherche scientifique."),
	site("Grande Mosquée de Cordoue", 37.8788, -4.7797, HistoricMosque,
		"Chef-d'œuvre de l'architecture islamique en Al-Andalus, symbole de la civilisation musulmane en Europe."),
	site("Université Al-Qarawiyyin (Fès)", 34.0649, -4.9738, KnowledgeCentre,
		"Fondée en 859, la plus ancienne université en activité continue au monde selon l'UNESCO."),
	site("Tombouctou", 16.7666, -3.0026, KnowledgeCentre,
		"Centre intellectuel et commercial du monde musulman médiéval, célèbre pour ses manuscrits."),
	site("Samarcande", 39.6542, 66.9597, Observatory,
		"Ville de la Route de la Soie, centre astronomique avec l'observatoire d'Ulugh Beg (XVe siècle)."),
	site("Observatoire du Caire", 30.0444, 31.2357, Observatory,
		"Centre astronomique fondé sous les Fatimides, contributions majeures à la science islamique."),
	site("Grande Mosquée de Djenné", 13.9059, -4.5544, HistoricMosque,
		"Plus grande structure en terre cuite au monde, patrimoine mondial de l'UNESCO."),
	site("Alhambra (Grenade)", 37.1773, -3.5881, Heritage,
		"Palais et forteresse nasride, chef-d'œuvre de l'art islamique en Espagne."),
}

// SiteView is a site seen from an observer.
type SiteView struct {
	Site
	Bearing    astro.Bearing `json:"bearing"`
	Cardinal   string        `json:"cardinal"`
	DistanceKm float64       `json:"distance_km"`
}

// SitesFrom annotates every site with its bearing and distance from
// observer. The order of Sites is kept.
func SitesFrom(observer astro.GeoCoordinate) ([]SiteView, error) {
	if err := observer.Validate(); err != nil {
		return nil, err
	}
	out := make([]SiteView, 0, len(Sites))
	for _, s := range Sites {
		b, err := astro.ComputeBearing(observer, s.Coord)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		out = append(out, SiteView{
			Site:       s,
			Bearing:    b,
			Cardinal:   b.Cardinal(),
			DistanceKm: astro.GreatCircleDistanceKm(observer, s.Coord),
		})
	}
	return out, nil
}

// ByDistance sorts views nearest first.
func ByDistance(views []SiteView) []SiteView {
	out := append([]SiteView(nil), views...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out
}

// SiteCategories lists categories in first-seen order.
func SiteCategories() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range Sites {
		if !seen[s.Category] {
			seen[s.Category] = true
			out = append(out, s.Category)
		}
	}
	return out
}
