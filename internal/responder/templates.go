package responder

import "github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"

// Greetings keyed by language. %s is the partner name or the localized fallback.
var greetings = map[string]string{
	"en": `Hello! 💕 I'm One2One Love AI, your relationship assistant. I'm here to help you and %s build deeper connections, work through disagreements, and keep your love growing.

What would you like help with today? I can:
• Walk you through the platform
• Share relationship advice
• Suggest fun things to do together
• Help you talk things through
• Support you in planning what comes next

How can I support your relationship journey?`,
	"es": `¡Hola! 💕 Soy One2One Love AI, tu asistente de relaciones. Estoy aquí para ayudarte a ti y a %s a construir conexiones más profundas, resolver conflictos y crear amor duradero.

¿En qué puedo ayudarte hoy?`,
	"fr": `Bonjour ! 💕 Je suis One2One Love AI, votre assistant relationnel. Je suis là pour vous aider, vous et %s, à construire des connexions plus profondes, résoudre les conflits et créer un amour durable.`,
	"it": `Ciao! 💕 Sono One2One Love AI, il tuo assistente per le relazioni. Sono qui per aiutare te e %s a costruire connessioni più profonde, risolvere conflitti e creare amore duraturo.`,
	"de": `Hallo! 💕 Ich bin One2One Love AI, dein Beziehungsassistent. Ich bin hier, um dir und %s zu helfen, tiefere Verbindungen aufzubauen, Konflikte zu lösen und dauerhafte Liebe zu schaffen.`,
	"nl": `Hallo! 💕 Ik ben One2One Love AI, je relatie-assistent. Ik ben hier om jou en %s te helpen diepere verbindingen op te bouwen, conflicten op te lossen en blijvende liefde te creëren.`,
	"pt": `Olá! 💕 Sou o One2One Love AI, seu assistente de relacionamento. Estou aqui para ajudá-lo e %s a construir conexões mais profundas, resolver conflitos e criar amor duradouro.`,
}

var partnerFallback = map[string]string{
	"en": "your partner",
	"es": "tu pareja",
	"fr": "votre partenaire",
	"it": "il tuo partner",
	"de": "deinem Partner",
	"nl": "je partner",
	"pt": "seu parceiro",
}

const (
	featureHelpWithKnowledge = "%s\n\nWould you like me to guide you through using %s?"
	featureHelpGeneric       = "I'd be happy to help you with %s! Based on your subscription tier (%s), you have access to various features. What specifically would you like to know?"
)

const adviceCommunication = `I understand communication challenges can be tough. Here are some constructive approaches:

**Immediate Steps:**
1. Take a pause when emotions are high - agree to step away and return when calmer
2. Use "I" statements instead of "you" statements - "I feel..." rather than "You always..."
3. Practice active listening - repeat back what you heard to ensure understanding

**Platform Tools That Can Help:**
• Communication Practice - Interactive scenarios to practice healthy communication
• AI Relationship Coach - Get personalized strategies for your situation
• Articles on conflict resolution - Expert guidance

Would you like me to guide you through a communication exercise, or help you find relevant resources?`

const adviceIntimacy = `Building intimacy and connection takes intentional effort. Here are some ideas:

**Connection Building Activities:**
• Plan regular date nights using Date Ideas feature
• Send surprise Love Notes to express feelings
• Try new activities together using Cooperative Games
• Use Relationship Quizzes to discover new things about each other
• Practice Meditation together for deeper connection

**Platform Features:**
• Memory Lane - Capture and cherish special moments
• Shared Journals - Write together and document your journey
• Relationship Goals - Set goals to improve intimacy together

What area of connection would you like to focus on?`

const adviceGoals = `Setting relationship goals is a great way to grow together! Here's how:

**Creating Relationship Goals:**
1. Identify an area you both want to improve (communication, intimacy, activities, etc.)
2. Set a specific, achievable goal
3. Break it down into actionable steps
4. Track progress together
5. Celebrate achievements along the way

**Platform Support:**
• Relationship Goals feature - Set and track goals with action steps
• Progress Tracking - Visualize your relationship growth
• Milestones - Celebrate important achievements

Would you like help creating a specific relationship goal?`

const adviceGeneral = `I'm here to support your relationship journey. Here are some general tips:

**Building Stronger Relationships:**
• Regular check-ins and open communication
• Quality time together (use Date Ideas for inspiration)
• Express appreciation (Love Notes are perfect for this)
• Work on goals together (Relationship Goals feature)
• Celebrate milestones and memories

**When You Need More Support:**
• Use Communication Practice for conflict resolution
• Access Counseling Support for professional help
• Read Articles and listen to Podcasts for expert advice

What specific aspect of your relationship would you like to work on?`

const datesFree = `Here are some wonderful free date ideas:

**Free Date Ideas:**
• Stargazing picnic (pack food from home)
• Coffee shop hopping (try 2-3 local cafes)
• Movie marathon at home (create a cozy fort)
• Explore a new neighborhood on foot
• Beach/park sunset watching
• Cook together using ingredients you already have
• Visit a local museum (many have free days)
• Take a scenic hike or nature walk

Would you like me to help you plan one of these, or create a custom date idea?`

const datesLuxury = `Here are some luxurious date ideas:

**Luxury Date Ideas:**
• Fine dining at a top restaurant
• Spa day for couples
• Weekend getaway to a romantic destination
• Private wine tasting experience
• Hot air balloon ride
• Luxury hotel staycation
• Couples cooking class at a premium venue
• Private yacht or boat charter

Would you like help planning a special luxury date?`

const datesAny = `Here are some great date ideas for any budget:

**Budget-Friendly:**
• Coffee shop date
• Picnic in the park
• Museum visit
• Home movie night

**Mid-Range:**
• Cooking class together
• Wine tasting
• Escape room
• Concert or show

**Special Occasions:**
• Weekend getaway
• Fine dining experience
• Spa day
• Surprise adventure

What type of date are you looking for? I can help you find the perfect one!`

// Content templates take the partner name for every %[1]s.
const contentPoem = `Here's a personalized poem for %[1]s:

**A Love Note for %[1]s**

In the quiet moments we share,
I find myself grateful beyond compare.
Your presence lights up my every day,
In the simplest and grandest way.

Through laughter, tears, and everything between,
You're the best part of my daily scene.
Together we grow, together we learn,
For your love, my heart will always yearn.

💕

Would you like me to customize this further or create a different style of poem?`

const contentLoveNote = `Here's a personalized love note for %[1]s:

**My Dearest %[1]s,**

I wanted to take a moment to tell you how much you mean to me. Your presence in my life brings so much joy and meaning.

Every day with you is a gift, and I'm grateful for the love we share. Whether we're laughing together, working through challenges, or simply enjoying each other's company, I feel so lucky to have you by my side.

Thank you for being you, and for being mine.

With all my love 💕

---

Would you like me to customize this message or create one for a specific occasion?`

const contentApology = `Here's a thoughtful apology message:

**I'm Sorry, %[1]s**

I want to apologize for [the situation]. I realize that my actions/words hurt you, and that's the last thing I ever want to do.

I understand now how this affected you, and I take full responsibility. Your feelings matter to me, and I'm committed to doing better.

I hope we can talk about this and work through it together. I value our relationship and want to make things right.

With love and regret,
[Your name]

---

Would you like me to personalize this further based on your specific situation?`

const contentMenu = `I can help you create personalized content! I can generate:
• Love notes and messages
• Poems
• Apology messages
• Anniversary notes
• Affirmations

What type of content would you like me to create for %[1]s?`

var subscriptionInfo = map[string]string{
	types.TierBasis: `You're on the **Basis (FREE)** plan! Here's what you have access to:

✅ 50+ Love Notes Library
✅ Basic Relationship Quizzes
✅ 5 Date Ideas per month
✅ Anniversary Reminders
✅ Digital Memory Timeline
✅ Mobile App Access
✅ Email Support

**Want more?** Consider upgrading to Premiere ($19.99/month) for:
• 1000+ Love Notes
• AI Relationship Coach (50 questions/month)
• Unlimited Date Ideas
• Relationship Goals Tracker
• Advanced Quizzes
• And much more!`,
	types.TierPremiere: `You're on the **Premiere ($19.99/month)** plan - great choice! ⭐

✅ 1000+ Love Notes Library
✅ AI Relationship Coach (50 questions/month)
✅ Unlimited Date Ideas with Filters
✅ Relationship Goals Tracker
✅ Advanced Quizzes & Compatibility Tests
✅ Schedule Surprise Messages
✅ Ad-Free Experience
✅ Priority Support

You're getting great value! Need even more? Exclusive tier offers unlimited everything plus AI Content Creator.`,
	types.TierExclusive: `You're on the **Exclusive ($34.99/month)** plan - the full experience! 🎉

✅ Unlimited Love Notes Library
✅ Unlimited AI Relationship Coach
✅ AI Content Creator (poems, letters)
✅ Personalized Relationship Reports
✅ Exclusive Couples Community Access
✅ Monthly Contest Entry for Prizes
✅ LGBTQ+ Specialized Resources
✅ 1-on-1 Expert Consultation (1/month)
✅ Premium WhatsApp Support
✅ VIP Badge & Recognition

You have access to everything! How can I help you make the most of your subscription?`,
}

const upgradeNote = "\n\n💡 Note: AI Relationship Coach is available in Premiere and Exclusive tiers. Consider upgrading to unlock this feature!"
