package command

// helpTexts holds the static per-command help, in the assistant's language.
var helpTexts = map[Kind]string{
	KindCalendar: `📅 Calendar commando's:

#calendar afspraak maken - Maak nieuwe afspraak
#calendar lijst - Toon komende afspraken
#calendar vandaag - Afspraken vandaag
#calendar morgen - Afspraken morgen

Voorbeelden:
- #calendar afspraak maken om 14:00 met Jan
- #calendar lijst deze week
- #calendar verwijder afspraak <id>
`,
	KindReminder: `⏰ Reminder commando's:

#reminder - Maak een snelle herinnering

Voorbeelden:
- #reminder Supermarkt om 20:00 vanavond
- #reminder Tandarts morgen 10:00
- #reminder Bel moeder vrijdag 15:00
`,
	KindTask: `✅ Taak commando's:

#task <titel> - Maak een nieuwe taak
#task <titel> @naam - Delegeer aan een persoon
#task <titel> priority high - Stel prioriteit in (low/medium/high)
#task <titel> deadline <wanneer> - Stel een deadline in
#task <titel> tags a,b,c - Voeg tags toe

Voorbeelden:
- #taak Rapport schrijven deadline vrijdag
- #task Offerte opstellen @Maria priority high tags sales,urgent
`,
	KindNote: `📝 Notitie commando's:

#note maken - Nieuwe notitie
#note lijst - Toon notities
#note zoek <term> - Zoek in notities

Voorbeelden:
- #note maken: boodschappen melk brood eieren
- #note lijst vandaag
- #note zoek vergadering
`,
	KindScan: `📸 Scan commando's:

#scan document - Scan en verwerk document
#scan foto - Scan foto/afbeelding
#scan bon - Scan kassabon

Voorbeelden:
- #scan document contract.pdf
- #scan bon voor declaratie
`,
	KindHelp: `❓ Beschikbare commando's:

📅 #calendar - Agenda beheer
⏰ #reminder - Snelle herinneringen
✅ #task - Taken beheren
📝 #note - Notities maken
📸 #scan - Documenten scannen
❓ #help - Deze help tekst

Gebruik #help <commando> voor meer info over een specifiek commando.
Bijvoorbeeld: #help calendar
`,
}

// genericHelp is returned for kinds without dedicated help text.
const genericHelp = "Onbekend commando. Typ #help voor beschikbare commando's."

// HelpText returns the static help text for a command kind.
// Unknown kinds get the generic fallback; this never fails.
func HelpText(kind Kind) string {
	if text, ok := helpTexts[kind]; ok {
		return text
	}
	return genericHelp
}
