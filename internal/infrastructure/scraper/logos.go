package scraper

// StoreLogos maps store names to logo URLs served from stable CDNs. An
// unknown store simply gets no logo.
var StoreLogos = map[string]string{
	"Colruyt":       "https://cdn.cookielaw.org/logos/01b5df24-cb0b-44a1-90e6-afd3f2e7bea0/36dcc7e0-97a6-422b-b3ad-c90e49082efd/91f51b8c-c0a7-4849-8b20-86e0fc38eeb7/Colruyt_Group_logo.png",
	"Albert Heijn":  "https://upload.wikimedia.org/wikipedia/commons/thumb/e/eb/Albert_Heijn_logo.svg/274px-Albert_Heijn_logo.svg.png",
	"Aldi":          "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2c/Aldi_Nord_201x_logo.svg/256px-Aldi_Nord_201x_logo.svg.png",
	"Delhaize":      "https://static.delhaize.be/logo_delhaize.svg",
	"Lidl":          "https://upload.wikimedia.org/wikipedia/commons/thumb/9/91/Lidl-Logo.svg/1024px-Lidl-Logo.svg.png",
	"Jumbo":         "https://upload.wikimedia.org/wikipedia/commons/thumb/e/ee/Jumbo_Logo.svg/1200px-Jumbo_Logo.svg.png",
	"Carrefour":     "https://upload.wikimedia.org/wikipedia/commons/thumb/5/5b/Carrefour_logo.svg/1024px-Carrefour_logo.svg.png",
	"Prik&Tik":      "https://www.prikentik.be/static/version1733984638/frontend/PrikEnTik/default/nl_BE/images/logo.svg",
	"Snuffelstore":  "https://www.snuffelstore.be/wp-content/uploads/2021/04/snuffelstore-logo-1.png",
	"Drinks Corner": "https://drinkscorner.be/wp-content/uploads/2023/10/DrinksCorner-Logo-web-150x64.png",
}
