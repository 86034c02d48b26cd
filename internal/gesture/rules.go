package gesture

import (
	d "github.com/ayusman/lsfstream/internal/detector"
)

// Rule binds a sign name to the predicate that recognizes it.
type Rule struct {
	Name  Symbol
	Match Predicate
}

var (
	indexRaised  = above(d.IndexTip, d.IndexPIP)
	middleRaised = above(d.MiddleTip, d.MiddlePIP)
	ringRaised   = above(d.RingTip, d.RingPIP)

	// Middle fingertip relative to the wrist.
	middleUp       = above(d.MiddleTip, d.Wrist)
	middleDown     = below(d.MiddleTip, d.Wrist)
	middleForward  = rightOf(d.MiddleTip, d.Wrist)
	middleBackward = leftOf(d.MiddleTip, d.Wrist)
	middleCircle   = all(farX(d.MiddleTip, d.Wrist, 0.1), farY(d.MiddleTip, d.Wrist, 0.1))
	middleCentered = all(nearX(d.MiddleTip, d.Wrist, 0.1), nearY(d.MiddleTip, d.Wrist, 0.1))
	middleSweep    = all(farX(d.MiddleTip, d.Wrist, 0.2), nearY(d.MiddleTip, d.Wrist, 0.1))

	fingersCrossed = all(nearX(d.IndexTip, d.MiddleTip, 0.05), nearY(d.IndexTip, d.MiddleTip, 0.05))

	handRaised = yBelowFrac(d.Wrist, 0.4)
	handHigh   = yBelowFrac(d.Wrist, 0.3)
	handLow    = yAboveFrac(d.Wrist, 0.6)
)

// CoreRules returns the registered vocabulary in evaluation order.
//
// The order decides ties: several predicates can hold for the same pose and
// the first one wins. "bonjour" (index and middle raised) and "oui" (index
// raised) are evaluated before the counting signs, so "un", "deux" and
// "trois" only win for poses the earlier rules reject.
func CoreRules() []Rule {
	return []Rule{
		{"bonjour", all(indexRaised, middleRaised)},
		{"merci", above(d.ThumbTip, d.ThumbIP)},
		{"oui", indexRaised},
		{"non", farX(d.IndexTip, d.IndexMCP, 0.1)},
		{"au_revoir", above(d.PinkyTip, d.PinkyMCP)},
		{"poing_ferme", fingersFolded()},
		{"s_il_vous_plait", all(middleUp, nearX(d.MiddleTip, d.Wrist, 0.1))},
		{"je_t_aime", fingersCrossed},
		{"bien", all(above(d.ThumbTip, d.ThumbMCP), fingersFolded())},
		{"manger", handHigh},
		{"aide", tipsAboveWrist()},
		{"attendre", all(nearX(d.MiddleTip, d.Wrist, 0.05), nearY(d.MiddleTip, d.Wrist, 0.05))},
		{"comprendre", yBelowFrac(d.IndexTip, 0.2)},
		{"faim", all(yAboveFrac(d.Wrist, 0.3), yBelowFrac(d.Wrist, 0.7))},
		{"fatigue", yBelowFrac(d.Wrist, 0.25)},
		{"dormir", all(handHigh, nearCenterX(0.2))},
		{"boire", all(yBelowFrac(d.Wrist, 0.35), nearCenterX(0.15))},
		{"froid", fingersSpread(0.05)},
		{"chaud", raisedAndSpread(0.1)},
		{"pardon", middleCircle},
		{"aujourd_hui", all(below(d.IndexTip, d.IndexMCP), nearX(d.IndexTip, d.IndexMCP, 0.05))},
		{"demain", all(nearY(d.IndexTip, d.IndexMCP, 0.05), rightOf(d.IndexTip, d.IndexMCP))},
		{"bonne_nuit", all(handHigh, fingersSpreadBetween(0.05, 0.15))},
		{"sante", all(handRaised, raisedAndSpread(0.1))},
		{"amitie", all(fingersCrossed, indexRaised)},
		{"famille", all(yBelowFrac(d.Wrist, 0.5), fingersSpreadBetween(0.05, 0.1))},
		{"ecole", all(handRaised, tipsLevelWithWrist(0.1))},
		{"un", all(indexRaised, fingerDown(d.MiddleTip), fingerDown(d.RingTip), fingerDown(d.PinkyTip))},
		{"deux", all(indexRaised, middleRaised, fingerDown(d.RingTip), fingerDown(d.PinkyTip))},
		{"trois", all(indexRaised, middleRaised, ringRaised, fingerDown(d.PinkyTip))},
		{"quatre", fingersExtended()},
		{"cinq", fingersSpread(0.1)},
		{"soleil", all(handHigh, raisedAndSpread(0.15))},
		{"lune", all(farX(d.IndexTip, d.MiddleTip, 0.2), nearY(d.IndexTip, d.MiddleTip, 0.1))},
		{"etoile", all(handRaised, eachFinger(func(h *d.HandLandmarks, tip int) bool {
			return dx(h, tip, d.Wrist) > 0.2 && dy(h, tip, d.Wrist) > 0.2
		}))},
		{"pluie", fingersFolded()},
		{"neige", eachFinger(func(h *d.HandLandmarks, tip int) bool {
			return spreadOf(h, tip) > 0.1 && pt(h, tip).Y > pt(h, tip-2).Y
		})},
		{"vent", all(nearY(d.Wrist, d.IndexTip, 0.1), fingersSpread(0.15))},
		{"feu", all(handRaised, raisedAndSpread(0.1))},
		{"eau", all(nearY(d.Wrist, d.IndexTip, 0.1), tipsLevelWithWrist(0.1))},
		{"terre", all(handLow, tipsLevelWithWrist(0.1))},
		{"ciel", all(handHigh, raisedAndSpread(0.1))},
	}
}

// ExtendedRules returns the optional vocabulary evaluated after CoreRules.
// It covers the function words and places used by the built-in phrases.
func ExtendedRules() []Rule {
	tipsOffWristX := eachFinger(func(h *d.HandLandmarks, tip int) bool {
		return pt(h, tip).X != pt(h, d.Wrist).X
	})

	return []Rule{
		{"comment", all(farX(d.IndexTip, d.IndexMCP, 0.1), farY(d.IndexTip, d.IndexMCP, 0.1))},
		{"ca", farX(d.MiddleTip, d.Wrist, 0.1)},
		{"vas", all(rightOf(d.IndexTip, d.IndexMCP), nearY(d.IndexTip, d.IndexMCP, 0.1))},
		{"je", xBelowFrac(d.IndexTip, 0.3)},
		{"suis", middleDown},
		{"il", xAboveFrac(d.IndexTip, 0.7)},
		{"fait", middleForward},
		{"beau", all(handRaised, tipsAboveWrist())},
		{"pleut", fingersFolded()},
		{"quel", all(indexRaised, middleRaised, nearX(d.IndexTip, d.MiddleTip, 0.1))},
		{"votre", xAboveFrac(d.Wrist, 0.5)},
		{"nom", fingersCrossed},
		{"content", all(handRaised, tipsAboveWrist())},
		{"triste", all(handLow, tipsBelowWrist())},
		{"colere", all(handRaised, tipsBelowWrist())},
		{"surpris", all(handRaised, fingersSpread(0.15))},
		{"malade", handHigh},
		{"heureux", all(handRaised, middleCircle)},
		{"desole", middleDown},
		{"perdu", farX(d.MiddleTip, d.Wrist, 0.2)},
		{"presse", farX(d.MiddleTip, d.Wrist, 0.15)},
		{"retard", middleDown},
		{"heure", xAboveFrac(d.Wrist, 0.5)},
		{"occupe", fingersFolded()},
		{"libre", tipsAboveWrist()},
		{"pret", middleForward},
		{"la", below(d.IndexTip, d.IndexPIP)},
		{"parti", middleForward},
		{"revenu", middleBackward},
		{"arrive", middleDown},
		{"train", middleCircle},
		{"apprendre", handHigh},
		{"réfléchir", yBelowFrac(d.IndexTip, 0.2)},
		{"parler", yBelowFrac(d.Wrist, 0.35)},
		{"écouter", all(handHigh, xAboveFrac(d.Wrist, 0.7))},
		{"regarder", all(rightOf(d.IndexTip, d.IndexMCP), rightOf(d.MiddleTip, d.MiddleMCP))},
		{"chercher", farX(d.MiddleTip, d.Wrist, 0.2)},
		{"trouver", rightOf(d.IndexTip, d.IndexMCP)},
		{"perdre", middleDown},
		{"gagner", handRaised},
		{"jouer", middleCircle},
		{"travail", all(handRaised, farX(d.MiddleTip, d.Wrist, 0.1))},
		{"maison", all(handRaised, tipsAboveWrist())},
		{"magasin", middleForward},
		{"restaurant", yBelowFrac(d.Wrist, 0.35)},
		{"cinema", all(handRaised, tipsAwayFromWristX(0.1))},
		{"parc", middleCircle},
		{"plage", farX(d.MiddleTip, d.Wrist, 0.2)},
		{"montagne", all(handRaised, middleUp)},
		{"campagne", middleCircle},
		{"ville", all(handRaised, tipsAboveWrist())},
		{"gare", middleSweep},
		{"aeroport", all(handRaised, middleForward)},
		{"hopital", all(handRaised, tipsAwayFromWristX(0.1))},
		{"docteur", handHigh},
		{"pharmacie", all(handRaised, tipsAwayFromWristX(0.1))},
		{"banque", all(farX(d.MiddleTip, d.Wrist, 0.1), nearY(d.MiddleTip, d.Wrist, 0.1))},
		{"poste", all(handRaised, middleForward)},
		{"bibliotheque", all(handRaised, nearX(d.MiddleTip, d.Wrist, 0.1))},
		{"musee", all(handRaised, farX(d.MiddleTip, d.Wrist, 0.1))},
		{"theatre", all(handRaised, middleUp)},
		{"concert", middleCircle},
		{"stade", all(handRaised, tipsAwayFromWristX(0.1))},
		{"piscine", middleSweep},
		{"gymnase", all(handRaised, farX(d.MiddleTip, d.Wrist, 0.1))},
		{"salle", all(handRaised, tipsAwayFromWristX(0.1))},
		{"sport", all(handRaised, farX(d.MiddleTip, d.Wrist, 0.1))},
		{"bain", middleCircle},
		{"cuisine", all(handRaised, farX(d.MiddleTip, d.Wrist, 0.1))},
		{"salon", all(handRaised, nearX(d.MiddleTip, d.Wrist, 0.1))},
		{"chambre", all(handRaised, middleUp)},
		{"jardin", all(handRaised, middleUp)},
		{"garage", middleSweep},
		{"sous-sol", middleDown},
		{"grenier", middleUp},
		{"balcon", all(handRaised, tipsAboveWrist())},
		{"terrasse", all(handRaised, tipsAboveWrist())},
		{"cave", middleDown},
		{"ascenseur", farY(d.MiddleTip, d.Wrist, 0.2)},
		{"escalier", middleCircle},
		{"porte", middleForward},
		{"fenetre", all(handRaised, tipsAwayFromWristX(0.1))},
		{"toit", all(handRaised, tipsAboveWrist())},
		{"mur", nearX(d.MiddleTip, d.Wrist, 0.1)},
		{"plafond", nearY(d.MiddleTip, d.Wrist, 0.1)},
		{"sol", nearY(d.MiddleTip, d.Wrist, 0.1)},
		{"coin", all(handRaised, tipsOffWristX)},
		{"centre", middleCentered},
		{"côté", farX(d.MiddleTip, d.Wrist, 0.2)},
		{"devant", middleForward},
		{"derrière", middleBackward},
		{"gauche", middleBackward},
		{"droite", middleForward},
		{"haut", middleUp},
		{"bas", middleDown},
		{"milieu", middleCentered},
		{"début", middleBackward},
		{"fin", middleForward},
	}
}

// nearCenterX: the wrist is within t of the horizontal center of the frame.
func nearCenterX(t float64) Predicate {
	return func(h *d.HandLandmarks) bool {
		x := pt(h, d.Wrist).X - 0.5
		return -t < x && x < t
	}
}
