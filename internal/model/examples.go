package model

import "math/rand/v2"

// nicheExamples are ready-made products used to prefill the product form.
var nicheExamples = []Product{
	{
		Name:           "CapilarMax Pro",
		Niche:          "Saude Capilar",
		MainPromise:    "Reduzir a queda de cabelo em ate 60% nos primeiros 90 dias",
		TargetAudience: "Homens de 25-55 anos que sofrem com queda de cabelo",
		Benefits:       "Fortalece os fios, estimula o crescimento, reduz a oleosidade do couro cabeludo, resultados visiveis em 30 dias",
		Mechanism:      "Complexo de biotina + zinco + saw palmetto que atua bloqueando o DHT no foliculo capilar",
		Tone:           ToneScientific,
	},
	{
		Name:           "VitaForce Homem",
		Niche:          "Masculino",
		MainPromise:    "Recuperar a disposição e performance que você tinha aos 25 anos",
		TargetAudience: "Homens 35-60 anos com queda de energia e libido",
		Benefits:       "Mais energia no dia a dia, melhora da performance física, aumento da disposição, recuperação muscular acelerada",
		Mechanism:      "Blend de tribulus terrestris + maca peruana + boro quelado que otimiza a produção natural de testosterona",
		Tone:           ToneDirect,
	},
	{
		Name:           "SlimBurn 360",
		Niche:          "Emagrecimento",
		MainPromise:    "Acelerar o metabolismo para queimar gordura localizada sem dietas restritivas",
		TargetAudience: "Mulheres e homens 25-50 que querem perder peso sem academia",
		Benefits:       "Reduz medidas abdominais, controla a fome, aumenta a termogênese, reduz inchaço",
		Mechanism:      "Morosil + cromo picolinato + spirulina que ativa a lipólise e reduz absorção de gordura",
		Tone:           ToneUrgent,
	},
	{
		Name:           "ArticuFlex Plus",
		Niche:          "Dores",
		MainPromise:    "Aliviar dores articulares crônicas e devolver a mobilidade em 15 dias",
		TargetAudience: "Pessoas 45+ com dores nos joelhos, costas ou articulações",
		Benefits:       "Alívio de dor progressivo, regenera cartilagem, reduz inflamação, melhora mobilidade",
		Mechanism:      "UC-II (colágeno tipo 2 não desnaturado) + cúrcuma longa + MSM que regenera a cartilagem e reduz inflamação",
		Tone:           ToneHuman,
	},
	{
		Name:           "CinturaShape Modeladora",
		Niche:          "Feminino",
		MainPromise:    "Afinar a cintura e modelar a silhueta com conforto durante todo o dia",
		TargetAudience: "Mulheres 20-45 que querem efeito visual imediato no corpo",
		Benefits:       "Redução visual de 2 medidas na cintura, corrige postura, comprime sem desconforto, invisível sob a roupa",
		Mechanism:      "Tecido de compressão graduada com infravermelho longo que estimula a microcirculação e reduz retenção de líquidos",
		Tone:           TonePremium,
	},
	{
		Name:           "VisionClear HD",
		Niche:          "Visao",
		MainPromise:    "Proteger e melhorar a saúde dos olhos contra telas e envelhecimento",
		TargetAudience: "Pessoas 30-65 que usam telas por muitas horas ou sentem a visão cansada",
		Benefits:       "Reduz fadiga ocular, protege contra luz azul, melhora visão noturna, previne degeneração macular",
		Mechanism:      "Luteína + zeaxantina + astaxantina que filtra luz azul e regenera as células da retina",
		Tone:           ToneScientific,
	},
	{
		Name:           "DeepSleep Restore",
		Niche:          "Sono",
		MainPromise:    "Dormir profundamente em 20 minutos e acordar com energia total",
		TargetAudience: "Adultos 25-60 com insônia ou sono de má qualidade",
		Benefits:       "Induz sono natural, aumenta fase REM, elimina despertar noturno, sem dependência",
		Mechanism:      "Melatonina de liberação prolongada + L-teanina + magnésio bisglicinato que sincroniza o ciclo circadiano",
		Tone:           ToneHuman,
	},
	{
		Name:           "ImunoPower Multi",
		Niche:          "Suplemento Vitaminico",
		MainPromise:    "Blindar a imunidade e acabar com gripes frequentes de uma vez",
		TargetAudience: "Pessoas de todas as idades que ficam doentes com frequência ou querem prevenir",
		Benefits:       "Fortalece defesas naturais, reduz frequência de gripes, mais energia, pele e cabelo saudáveis",
		Mechanism:      "Complexo de vitamina C + D3 + zinco quelado + selênio que ativa as células NK e fortalece a barreira imunológica",
		Tone:           ToneDirect,
	},
}

// NicheExamples returns a copy of the built-in example products.
func NicheExamples() []Product {
	out := make([]Product, len(nicheExamples))
	copy(out, nicheExamples)
	return out
}

// RandomExample returns one example product chosen at random.
func RandomExample() Product {
	return nicheExamples[rand.IntN(len(nicheExamples))] //nolint:gosec // not security sensitive
}

// PromiseChips are short promise fragments offered as suggestions.
var PromiseChips = []string{
	"reduzir queda", "aumentar densidade", "engrossar fios", "acelerar crescimento",
	"eliminar dor", "mais energia", "emagrecer rapido",
}
