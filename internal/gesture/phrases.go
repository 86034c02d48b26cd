package gesture

// BuiltinPhrases returns the default phrase table in registration order.
func BuiltinPhrases() []Phrase {
	return []Phrase{
		{"bonjour comment ca vas", []Symbol{"bonjour", "comment", "ca", "vas"}},
		{"bonjour comment allez vous", []Symbol{"bonjour", "comment", "allez", "vous"}},
		{"je m appelle", []Symbol{"je", "m", "appelle"}},
		{"enchanté de vous rencontrer", []Symbol{"enchanté", "de", "vous", "rencontrer"}},
		{"au revoir à bientôt", []Symbol{"au_revoir", "à", "bientôt"}},
		{"merci beaucoup", []Symbol{"merci", "beaucoup"}},
		{"s il vous plait", []Symbol{"s_il_vous_plait"}},
		{"je t aime", []Symbol{"je_t_aime"}},
		{"bonne nuit", []Symbol{"bonne_nuit"}},
		{"bonne journée", []Symbol{"bonne", "journée"}},
		{"à tout à l heure", []Symbol{"à", "tout", "à", "l", "heure"}},
		{"je ne comprends pas", []Symbol{"je", "ne", "comprends", "pas"}},
		{"pouvez vous répéter", []Symbol{"pouvez", "vous", "répéter"}},
		{"je suis fatigué", []Symbol{"je", "suis", "fatigue"}},
		{"je suis malade", []Symbol{"je", "suis", "malade"}},
		{"je suis heureux", []Symbol{"je", "suis", "heureux"}},
		{"je suis triste", []Symbol{"je", "suis", "triste"}},
		{"je suis en colère", []Symbol{"je", "suis", "en", "colere"}},
		{"je suis surpris", []Symbol{"je", "suis", "surpris"}},
		{"je suis désolé", []Symbol{"je", "suis", "desole"}},
		{"je suis perdu", []Symbol{"je", "suis", "perdu"}},
		{"je suis pressé", []Symbol{"je", "suis", "presse"}},
		{"je suis en retard", []Symbol{"je", "suis", "en", "retard"}},
		{"je suis à l heure", []Symbol{"je", "suis", "à", "l", "heure"}},
		{"je suis occupé", []Symbol{"je", "suis", "occupe"}},
		{"je suis libre", []Symbol{"je", "suis", "libre"}},
		{"je suis prêt", []Symbol{"je", "suis", "pret"}},
		{"je suis là", []Symbol{"je", "suis", "la"}},
		{"je suis parti", []Symbol{"je", "suis", "parti"}},
		{"je suis revenu", []Symbol{"je", "suis", "revenu"}},
		{"je suis arrivé", []Symbol{"je", "suis", "arrivé"}},
		{"je suis en train de", []Symbol{"je", "suis", "en", "train", "de"}},
		{"je suis en train de manger", []Symbol{"je", "suis", "en", "train", "de", "manger"}},
		{"je suis en train de boire", []Symbol{"je", "suis", "en", "train", "de", "boire"}},
		{"je suis en train de dormir", []Symbol{"je", "suis", "en", "train", "de", "dormir"}},
		{"je suis en train de travailler", []Symbol{"je", "suis", "en", "train", "de", "travailler"}},
		{"je suis en train d apprendre", []Symbol{"je", "suis", "en", "train", "d", "apprendre"}},
		{"je suis en train de comprendre", []Symbol{"je", "suis", "en", "train", "de", "comprendre"}},
		{"je suis en train de réfléchir", []Symbol{"je", "suis", "en", "train", "de", "réfléchir"}},
		{"je suis en train de parler", []Symbol{"je", "suis", "en", "train", "de", "parler"}},
		{"je suis en train d écouter", []Symbol{"je", "suis", "en", "train", "d", "écouter"}},
		{"je suis en train de regarder", []Symbol{"je", "suis", "en", "train", "de", "regarder"}},
		{"je suis en train de chercher", []Symbol{"je", "suis", "en", "train", "de", "chercher"}},
		{"je suis en train de trouver", []Symbol{"je", "suis", "en", "train", "de", "trouver"}},
		{"je suis en train de perdre", []Symbol{"je", "suis", "en", "train", "de", "perdre"}},
		{"je suis en train de gagner", []Symbol{"je", "suis", "en", "train", "de", "gagner"}},
		{"je suis en train de jouer", []Symbol{"je", "suis", "en", "train", "de", "jouer"}},
		{"je vais à l école", []Symbol{"je", "vais", "à", "l", "ecole"}},
		{"je vais au travail", []Symbol{"je", "vais", "au", "travail"}},
		{"je vais à la maison", []Symbol{"je", "vais", "à", "la", "maison"}},
		{"je vais au magasin", []Symbol{"je", "vais", "au", "magasin"}},
		{"je vais au restaurant", []Symbol{"je", "vais", "au", "restaurant"}},
		{"je vais au cinéma", []Symbol{"je", "vais", "au", "cinema"}},
		{"je vais au parc", []Symbol{"je", "vais", "au", "parc"}},
		{"je vais à la plage", []Symbol{"je", "vais", "à", "la", "plage"}},
		{"je vais à la montagne", []Symbol{"je", "vais", "à", "la", "montagne"}},
		{"je vais à la campagne", []Symbol{"je", "vais", "à", "la", "campagne"}},
		{"je vais à la ville", []Symbol{"je", "vais", "à", "la", "ville"}},
		{"je vais à la gare", []Symbol{"je", "vais", "à", "la", "gare"}},
		{"je vais à l aéroport", []Symbol{"je", "vais", "à", "l", "aeroport"}},
		{"je vais à l hôpital", []Symbol{"je", "vais", "à", "l", "hopital"}},
		{"je vais au docteur", []Symbol{"je", "vais", "au", "docteur"}},
		{"je vais à la pharmacie", []Symbol{"je", "vais", "à", "la", "pharmacie"}},
		{"je vais à la banque", []Symbol{"je", "vais", "à", "la", "banque"}},
		{"je vais à la poste", []Symbol{"je", "vais", "à", "la", "poste"}},
		{"je vais à la bibliothèque", []Symbol{"je", "vais", "à", "la", "bibliotheque"}},
		{"je vais au musée", []Symbol{"je", "vais", "au", "musee"}},
		{"je vais au théâtre", []Symbol{"je", "vais", "au", "theatre"}},
		{"je vais au concert", []Symbol{"je", "vais", "au", "concert"}},
		{"je vais au stade", []Symbol{"je", "vais", "au", "stade"}},
		{"je vais à la piscine", []Symbol{"je", "vais", "à", "la", "piscine"}},
		{"je vais au gymnase", []Symbol{"je", "vais", "au", "gymnase"}},
		{"je vais à la salle de sport", []Symbol{"je", "vais", "à", "la", "salle", "de", "sport"}},
		{"je vais à la salle de bain", []Symbol{"je", "vais", "à", "la", "salle", "de", "bain"}},
		{"je vais à la cuisine", []Symbol{"je", "vais", "à", "la", "cuisine"}},
		{"je vais au salon", []Symbol{"je", "vais", "au", "salon"}},
		{"je vais à la chambre", []Symbol{"je", "vais", "à", "la", "chambre"}},
		{"je vais au jardin", []Symbol{"je", "vais", "au", "jardin"}},
		{"je vais au garage", []Symbol{"je", "vais", "au", "garage"}},
		{"je vais au sous-sol", []Symbol{"je", "vais", "au", "sous-sol"}},
		{"je vais au grenier", []Symbol{"je", "vais", "au", "grenier"}},
		{"je vais au balcon", []Symbol{"je", "vais", "au", "balcon"}},
		{"je vais à la terrasse", []Symbol{"je", "vais", "à", "la", "terrasse"}},
		{"je vais à la cave", []Symbol{"je", "vais", "à", "la", "cave"}},
		{"je vais à l ascenseur", []Symbol{"je", "vais", "à", "l", "ascenseur"}},
		{"je vais à l escalier", []Symbol{"je", "vais", "à", "l", "escalier"}},
		{"je vais à la porte", []Symbol{"je", "vais", "à", "la", "porte"}},
		{"je vais à la fenêtre", []Symbol{"je", "vais", "à", "la", "fenetre"}},
		{"je vais au toit", []Symbol{"je", "vais", "au", "toit"}},
		{"je vais au mur", []Symbol{"je", "vais", "au", "mur"}},
		{"je vais au plafond", []Symbol{"je", "vais", "au", "plafond"}},
		{"je vais au sol", []Symbol{"je", "vais", "au", "sol"}},
		{"je vais au coin", []Symbol{"je", "vais", "au", "coin"}},
		{"je vais au centre", []Symbol{"je", "vais", "au", "centre"}},
		{"je vais à côté", []Symbol{"je", "vais", "à", "côté"}},
		{"je vais devant", []Symbol{"je", "vais", "devant"}},
		{"je vais derrière", []Symbol{"je", "vais", "derrière"}},
		{"je vais à gauche", []Symbol{"je", "vais", "à", "gauche"}},
		{"je vais à droite", []Symbol{"je", "vais", "à", "droite"}},
		{"je vais en haut", []Symbol{"je", "vais", "en", "haut"}},
		{"je vais en bas", []Symbol{"je", "vais", "en", "bas"}},
		{"je vais au milieu", []Symbol{"je", "vais", "au", "milieu"}},
		{"je vais au début", []Symbol{"je", "vais", "au", "début"}},
		{"je vais à la fin", []Symbol{"je", "vais", "à", "la", "fin"}},
	}
}
