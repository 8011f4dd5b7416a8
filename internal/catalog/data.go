package catalog

import "github.com/angelmondragon/sonumarket-core/pkg/enums"

// ConfiguratorLabel is the category label carried by configurator-only parts.
const ConfiguratorLabel = "Configurateur"

var defaultVariants = []string{"Standard", "Premium", "Pro"}

// Default returns the built-in SonuMarket catalog.
func Default() *Store {
	return MustNewStore(DefaultData())
}

// MustNewStore is NewStore for data known to be valid at compile time.
func MustNewStore(data Data) *Store {
	store, err := NewStore(data)
	if err != nil {
		panic(err)
	}
	return store
}

// DefaultData returns a fresh copy of the built-in catalog data.
func DefaultData() Data {
	products := append(hardwareProducts(), digitalProducts()...)
	products = append(products, configuratorParts()...)
	return Data{
		Products: products,
		Categories: []Category{
			{ID: enums.CategoryIDGaming, Name: "PC Gaming", IconName: "Gamepad2"},
			{ID: enums.CategoryIDLaptop, Name: "Laptops", IconName: "Laptop"},
			{ID: enums.CategoryIDComponents, Name: "Composants", IconName: "Cpu"},
			{ID: enums.CategoryIDPeripherals, Name: "Périphér.", IconName: "Keyboard"},
			{ID: enums.CategoryIDServices, Name: "Services", IconName: "Wrench"},
		},
		Services: []Service{
			{ID: "install", Name: "Installation Windows + Pilotes", Duration: 60, Price: 15000, Description: "Installation propre, mises à jour et optimisation."},
			{ID: "assembly", Name: "Montage PC Complet", Duration: 120, Price: 35000, Description: "Assemblage expert, cable management soigné."},
			{ID: "cleaning", Name: "Nettoyage & Dépoussiérage", Duration: 45, Price: 10000, Description: "Nettoyage interne complet et changement pâte thermique."},
			{ID: "diag", Name: "Diagnostic Panne", Duration: 30, Price: 5000, Description: "Identification précise du problème matériel ou logiciel."},
			{ID: "redaction", Name: "Assistance Rédaction & Admin", Duration: 60, Price: 5000, Description: "Aide à la rédaction de CV, lettres ou personnalisation de contrats."},
		},
		CVTemplates: []CVTemplate{
			{ID: "cv-modern", Name: "Le Pro", Image: "https://images.unsplash.com/photo-1586281380349-632531db7ed4?auto=format&fit=crop&w=400&q=80", Price: 2000, Style: "Modern"},
			{ID: "cv-classic", Name: "L'Exécutif", Image: "https://images.unsplash.com/photo-1626197031507-c17099753214?auto=format&fit=crop&w=400&q=80", Price: 1500, Style: "Classic"},
			{ID: "cv-creative", Name: "Le Créatif", Image: "https://images.unsplash.com/photo-1616628188859-7a11abb6fcc9?auto=format&fit=crop&w=400&q=80", Price: 2500, Style: "Creative"},
		},
		RedactionOptions: []RedactionOption{
			{ID: "correction", Title: "Correction & Relecture", Description: "Correction orthographe, grammaire et style.", BasePrice: 2000, Icon: "Check"},
			{ID: "letter", Title: "Lettre Administrative", Description: "Rédaction ou mise en forme de courriers.", BasePrice: 3000, Icon: "FileText"},
			{ID: "report", Title: "Mise en page Rapport", Description: "Word, PowerPoint. Prix par page.", BasePrice: 5000, Icon: "FileSpreadsheet"},
			{ID: "contract", Title: "Personnalisation Contrat", Description: "Adaptation de modèles juridiques.", BasePrice: 10000, Icon: "Briefcase"},
		},
	}
}

func hardwareProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "NVIDIA RTX 4080 Founders Edition",
			Price:       850000,
			Rating:      4.8,
			Image:       "https://images.unsplash.com/photo-1591488320449-011701bb6704?auto=format&fit=crop&w=800&q=80",
			Category:    "Composants",
			Type:        enums.ProductTypeGPU,
			IsNew:       true,
			Reviews:     124,
			Description: "La carte graphique GeForce RTX 4080 offre les performances et les fonctionnalités ultra-recherchées par les joueurs passionnés et les créateurs. Donnez vie à vos jeux et projets créatifs avec le ray tracing et les graphismes optimisés par l'IA.",
			Specs: Specs{
				{Key: "Cœurs CUDA", Value: "9728"},
				{Key: "VRAM", Value: "16 Go GDDR6X"},
				{Key: "Architecture", Value: "Ada Lovelace"},
				{Key: "Fréquence Boost", Value: "2.51 GHz"},
			},
			Variants: defaultVariants,
		},
		{
			ID:          "2",
			Name:        `MacBook Pro 14" M3 Max`,
			Price:       2100000,
			Rating:      4.9,
			Image:       "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=format&fit=crop&w=800&q=80",
			Category:    "Laptops",
			Discount:    10,
			Reviews:     89,
			Description: "Le MacBook Pro 14 pouces avec puce M3 Max offre des performances extrêmes pour les flux de travail les plus exigeants, avec une autonomie encore améliorée.",
			Specs: Specs{
				{Key: "Puce", Value: "Apple M3 Max"},
				{Key: "RAM", Value: "36 Go"},
				{Key: "SSD", Value: "1 To"},
				{Key: "Écran", Value: "Liquid Retina XDR"},
			},
			Variants: defaultVariants,
		},
		{
			ID:          "periph-1",
			Name:        "Logitech MX Master 3S",
			Price:       65000,
			Rating:      4.9,
			Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?auto=format&fit=crop&w=800&q=80",
			Category:    "Périphériques",
			Type:        enums.ProductTypeOther,
			Reviews:     250,
			Description: "La souris de productivité ultime, repensée. Clics silencieux, défilement électromagnétique MagSpeed, capteur 8K DPI fonctionnant sur le verre.",
			Specs: Specs{
				{Key: "DPI", Value: "8000"},
				{Key: "Connexion", Value: "Bluetooth / Bolt"},
				{Key: "Autonomie", Value: "70 jours"},
				{Key: "Recharge", Value: "USB-C"},
			},
			Variants: defaultVariants,
		},
		{
			ID:          "gaming-1",
			Name:        "PC Gaming Ryzen 7 / RTX 4070",
			Price:       1250000,
			Rating:      4.7,
			Image:       "https://images.unsplash.com/photo-1587202372634-32705e3bf49c?auto=format&fit=crop&w=800&q=80",
			Category:    "PC Gaming",
			IsNew:       true,
			Reviews:     57,
			Description: "Tour monté et testé en atelier, prêt pour le 1440p en ultra. Refroidissement liquide et boîtier vitré.",
			Specs: Specs{
				{Key: "Processeur", Value: "AMD Ryzen 7 7800X3D"},
				{Key: "Carte graphique", Value: "RTX 4070 12 Go"},
				{Key: "RAM", Value: "32 Go DDR5"},
				{Key: "Stockage", Value: "SSD NVMe 2 To"},
			},
			Variants: defaultVariants,
		},
		{
			ID:          "periph-2",
			Name:        "Casque HyperX Cloud II",
			Price:       55000,
			Rating:      4.6,
			Image:       "https://images.unsplash.com/photo-1599669454699-248893623440?auto=format&fit=crop&w=800&q=80",
			Category:    "Périphériques",
			Type:        enums.ProductTypeOther,
			Discount:    15,
			Reviews:     310,
			Description: "Le casque de référence des gamers : son surround 7.1, micro antibruit amovible et coussinets à mémoire de forme.",
			Specs: Specs{
				{Key: "Son", Value: "Surround 7.1"},
				{Key: "Connexion", Value: "USB / Jack 3.5"},
				{Key: "Poids", Value: "320 g"},
			},
			Variants: defaultVariants,
		},
	}
}

func digitalProducts() []Product {
	return []Product{
		{
			ID:          "doc-1",
			Name:        "Pack Contrats Commerciaux",
			Price:       15000,
			Rating:      4.8,
			Image:       "https://images.unsplash.com/photo-1554224155-8d04cb21cd6c?auto=format&fit=crop&w=800&q=80",
			Category:    "Administratif",
			Type:        enums.ProductTypeDigital,
			FileType:    enums.FileTypeDOCX,
			Reviews:     45,
			Description: "Un ensemble complet de modèles de contrats conformes aux normes OHADA pour sécuriser vos relations d'affaires. Idéal pour freelances et PME.",
			Specs: Specs{
				{Key: "Format", Value: "Word (.docx)"},
				{Key: "Pages", Value: "12 modèles"},
				{Key: "Langue", Value: "Français"},
			},
			DigitalContents: []string{
				"Contrat de prestation de services.docx",
				"Contrat de vente de marchandises.docx",
				"Accord de confidentialité (NDA).docx",
				"Contrat de partenariat commercial.docx",
				"Lettre de mise en demeure.docx",
				"Statuts SARL simplifiés.docx",
			},
		},
		{
			ID:          "doc-2",
			Name:        "Modèle Business Plan Excel",
			Price:       10000,
			Rating:      4.9,
			Image:       "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&w=800&q=80",
			Category:    "Finance",
			Type:        enums.ProductTypeDigital,
			FileType:    enums.FileTypeXLSX,
			Reviews:     120,
			Description: "Tableaux financiers automatisés pour construire votre prévisionnel sur 3 ans. Les formules sont déjà intégrées, il suffit de remplir vos hypothèses.",
			Specs: Specs{
				{Key: "Format", Value: "Excel (.xlsx)"},
				{Key: "Automatisé", Value: "Oui"},
				{Key: "Niveau", Value: "Intermédiaire"},
			},
			DigitalContents: []string{
				"00_Guide_Utilisation.pdf",
				"01_Plan_Tresorerie_Mensuel.xlsx",
				"02_Compte_De_Resultat_Previsionnel.xlsx",
				"03_Bilan_Previsionnel.xlsx",
				"04_Tableau_Amortissements.xlsx",
				"05_Calcul_BFR.xlsx",
			},
		},
		{
			ID:          "doc-3",
			Name:        "Pack CV & Lettre Motivation",
			Price:       5000,
			Rating:      4.7,
			Image:       "https://images.unsplash.com/photo-1586281380349-632531db7ed4?auto=format&fit=crop&w=800&q=80",
			Category:    "Carrière",
			Type:        enums.ProductTypeDigital,
			FileType:    enums.FileTypeDOCX,
			Reviews:     230,
			Description: "Maximisez vos chances avec ces 5 designs modernes et professionnels. Faciles à modifier sur Word ou Canva.",
			Specs: Specs{
				{Key: "Format", Value: "Word / Canva"},
				{Key: "Design", Value: "Moderne"},
				{Key: "Modifiable", Value: "100%"},
			},
			DigitalContents: []string{
				"CV_Design_Minimaliste.docx",
				"CV_Design_Creatif.docx",
				"CV_Design_Executif.docx",
				"Lettre_Motivation_Spontanee.docx",
				"Lettre_Motivation_Reponse_Annonce.docx",
				"Bonus_Liste_Verbes_Action.pdf",
			},
		},
		{
			ID:          "doc-4",
			Name:        "Guide Création Entreprise",
			Price:       2000,
			Rating:      4.5,
			Image:       "https://images.unsplash.com/photo-1507842217153-e21f40667276?auto=format&fit=crop&w=800&q=80",
			Category:    "Administratif",
			Type:        enums.ProductTypeDigital,
			FileType:    enums.FileTypePDF,
			Reviews:     89,
			Description: "Ebook complet détaillant toutes les étapes administratives et fiscales pour créer son entreprise au Cameroun et en zone CEMAC.",
			Specs: Specs{
				{Key: "Format", Value: "PDF"},
				{Key: "Pages", Value: "45 pages"},
				{Key: "Mise à jour", Value: "2024"},
			},
			DigitalContents: []string{
				"Ebook_Creation_Entreprise_2025.pdf",
				"Checklist_Documents_Banque.pdf",
				"Annuaire_Centres_Impots.pdf",
			},
		},
	}
}

func configuratorParts() []Product {
	part := func(id, name string, t enums.ProductType, price int64, rating float64, specs Specs) Product {
		return Product{
			ID:          id,
			Name:        name,
			Price:       price,
			Rating:      rating,
			Category:    ConfiguratorLabel,
			Type:        t,
			Description: name,
			Specs:       specs,
		}
	}
	return []Product{
		part("cfg-chassis-14", `Châssis Ultrabook 14" FHD`, enums.ProductTypeChassis, 180000, 4.5, Specs{
			{Key: "Écran", Value: "14\" IPS 1920x1080"},
			{Key: "Poids", Value: "1.3 kg"},
		}),
		part("cfg-chassis-16", `Châssis Performance 16" QHD 165 Hz`, enums.ProductTypeChassis, 320000, 4.7, Specs{
			{Key: "Écran", Value: "16\" IPS 2560x1600"},
			{Key: "Rafraîchissement", Value: "165 Hz"},
		}),
		part("cfg-cpu-i5", "Intel Core i5-13500H", enums.ProductTypeCPUMobile, 145000, 4.6, Specs{
			{Key: "Cœurs", Value: "12"},
			{Key: "Fréquence", Value: "4.7 GHz"},
		}),
		part("cfg-cpu-r9", "AMD Ryzen 9 7940HS", enums.ProductTypeCPUMobile, 260000, 4.8, Specs{
			{Key: "Cœurs", Value: "8"},
			{Key: "Fréquence", Value: "5.2 GHz"},
		}),
		part("cfg-ram-16", "16 Go DDR5 4800 MHz", enums.ProductTypeRAMMobile, 45000, 4.5, Specs{
			{Key: "Capacité", Value: "16 Go"},
		}),
		part("cfg-ram-32", "32 Go DDR5 5600 MHz", enums.ProductTypeRAMMobile, 85000, 4.8, Specs{
			{Key: "Capacité", Value: "32 Go"},
		}),
		part("cfg-ssd-512", "SSD NVMe 512 Go", enums.ProductTypeStorage, 35000, 4.4, Specs{
			{Key: "Interface", Value: "PCIe 3.0"},
		}),
		part("cfg-ssd-1t", "SSD NVMe 1 To Gen4", enums.ProductTypeStorage, 65000, 4.7, Specs{
			{Key: "Interface", Value: "PCIe 4.0"},
		}),
		part("cfg-os-linux", "Ubuntu 24.04 LTS", enums.ProductTypeOS, 0, 4.3, Specs{
			{Key: "Licence", Value: "Libre"},
		}),
		part("cfg-os-win", "Windows 11 Pro", enums.ProductTypeOS, 95000, 4.5, Specs{
			{Key: "Licence", Value: "OEM"},
		}),
	}
}
