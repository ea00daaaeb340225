package content

// Link is an external resource.
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ResourceGroup is a titled set of links.
type ResourceGroup struct {
	Category string `json:"category"`
	Links    []Link `json:"links"`
}

// Resources are the curated links.
var Resources = []ResourceGroup{
	{
		Category: "Astronomie & Espace",
		Links: []Link{
			{"NASA Earth Observatory", "https://earthobservatory.nasa.gov/", "Images satellites et données sur la Terre vue de l'espace"},
			{"Stellarium Web", "https://stellarium-web.org/", "Planétarium en ligne pour observer le ciel en temps réel"},
			{"NASA Space Place", "https://spaceplace.nasa.gov/", "Ressources éducatives sur l'espace et l'astronomie"},
		},
	},
	{
		Category: "Islam & Sciences",
		Links: []Link{
			{"Islamic Astronomy", "https://www.muslimheritage.com/topics/astronomy", "Histoire de l'astronomie dans la civilisation islamique"},
			{"IslamWeb - Sciences", "https://www.islamweb.net/", "Articles sur les sciences dans la perspective islamique"},
			{"Muslim Scientists", "https://www.1001inventions.com/", "Contributions des scientifiques musulmans à l'histoire"},
		},
	},
	{
		Category: "Géomatique & Cartographie",
		Links: []Link{
			{"OpenStreetMap", "https://www.openstreetmap.org/", "Carte collaborative mondiale libre et gratuite"},
			{"QGIS", "https://qgis.org/", "Logiciel SIG open source pour analyse géospatiale"},
			{"NASA WorldWind", "https://worldwind.arc.nasa.gov/", "Globe virtuel 3D avec données géospatiales"},
		},
	},
	{
		Category: "Applications Mobiles",
		Links: []Link{
			{"Muslim Pro", "https://www.muslimpro.com/", "Horaires de prière, Qibla, et Coran"},
			{"Athan - Prayer Times", "https://athanapp.com/", "Application complète pour les pratiques religieuses"},
			{"Star Walk 2", "https://starwalk.space/", "Guide interactif du ciel étoilé avec réalité augmentée"},
		},
	},
}
